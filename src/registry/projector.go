package registry

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sbtc-bridge/registry/src/store"
	"github.com/sbtc-bridge/registry/src/utils/model"

	"time"
)

// ReclaimPubkeysKey builds the canonical key of the reclaim pubkey
// index: lowercased hex, sorted, dash-joined. Sorting makes the key
// independent of the caller-supplied list order.
func ReclaimPubkeysKey(pubkeys []string) string {
	keys := make([]string, len(pubkeys))
	for i, pubkey := range pubkeys {
		keys[i] = strings.ToLower(pubkey)
	}
	sort.Strings(keys)
	return strings.Join(keys, "-")
}

// Lexicographic ordering key that sorts newest first
func descendingOrderingKey(t time.Time) string {
	return fmt.Sprintf("%020d", uint64(math.MaxInt64-t.UnixNano()))
}

// Lexicographic ordering key that lists a transaction's outputs in
// output order
func outputOrderingKey(index uint32) string {
	return fmt.Sprintf("%010d", index)
}

// projectEntries derives the full index entry set of a deposit, one
// entry per index kind, in deterministic order.
func projectEntries(deposit *model.Deposit) ([]model.DepositIndexEntry, error) {
	if deposit.Recipient == "" {
		return nil, &ProjectionError{Reason: "deposit has no recipient"}
	}
	if len(deposit.ReclaimPubkeys) == 0 {
		return nil, &ProjectionError{Reason: "deposit has no reclaim pubkeys"}
	}
	if !deposit.Status.IsValid() {
		return nil, &ProjectionError{Reason: "deposit has no valid status"}
	}

	base := model.DepositIndexEntry{
		BitcoinTxid:          deposit.BitcoinTxid,
		BitcoinTxOutputIndex: deposit.BitcoinTxOutputIndex,
		Recipient:            deposit.Recipient,
		Amount:               deposit.Amount,
		Status:               deposit.Status,
		DepositScript:        deposit.DepositScript,
		ReclaimScript:        deposit.ReclaimScript,
		CreatedAt:            deposit.CreatedAt,
		LastUpdatedAt:        deposit.LastUpdatedAt,
	}
	createdOrdering := descendingOrderingKey(deposit.CreatedAt)

	byStatus := base
	byStatus.Kind = model.IndexByStatus
	byStatus.IndexKey = string(deposit.Status)
	byStatus.OrderingKey = createdOrdering

	byRecipient := base
	byRecipient.Kind = model.IndexByRecipient
	byRecipient.IndexKey = deposit.Recipient
	byRecipient.OrderingKey = createdOrdering

	byReclaimPubkeys := base
	byReclaimPubkeys.Kind = model.IndexByReclaimPubkeys
	byReclaimPubkeys.IndexKey = ReclaimPubkeysKey(deposit.ReclaimPubkeys)
	byReclaimPubkeys.OrderingKey = createdOrdering

	byTransaction := base
	byTransaction.Kind = model.IndexByTransaction
	byTransaction.IndexKey = deposit.BitcoinTxid
	byTransaction.OrderingKey = outputOrderingKey(deposit.BitcoinTxOutputIndex)

	return []model.DepositIndexEntry{byStatus, byRecipient, byReclaimPubkeys, byTransaction}, nil
}

// Project computes the index delta between two versions of a deposit.
// A nil before means creation. The returned delta is complete, the
// caller commits it atomically together with the record; rows whose
// address didn't change are refreshed through the upserted inserts.
func Project(before, after *model.Deposit) (delta store.Delta, err error) {
	delta.Insert, err = projectEntries(after)
	if err != nil {
		return
	}

	if before == nil {
		return
	}

	old, err := projectEntries(before)
	if err != nil {
		return
	}

	for _, entry := range old {
		stale := true
		for i := range delta.Insert {
			if entry.SameRow(&delta.Insert[i]) {
				stale = false
				break
			}
		}
		if stale {
			delta.Delete = append(delta.Delete, entry)
		}
	}
	return
}
