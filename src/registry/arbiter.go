package registry

import (
	"context"
	"database/sql"
	"time"

	"github.com/sbtc-bridge/registry/src/store"
	"github.com/sbtc-bridge/registry/src/utils/logger"
	"github.com/sbtc-bridge/registry/src/utils/model"

	"github.com/sirupsen/logrus"
)

// Requested change to one deposit, tagged with its originating path.
type Mutation struct {
	Path          UpdatePath
	Status        model.DepositStatus
	StatusMessage string
	Sidecar       *SidecarUpdate
	Signer        *SignerUpdate
}

// Arbiter serializes logically conflicting writes to one deposit
// without serializing unrelated keys. Writes are optimistic: the
// caller names the version it read, the store's conditional write is
// the lock. The arbiter also enforces the field ownership split
// between the two external writer roles.
type Arbiter struct {
	store store.Store
	log   *logrus.Entry
}

func NewArbiter(store store.Store) (self *Arbiter) {
	self = new(Arbiter)
	self.store = store
	self.log = logger.NewSublogger("arbiter")
	return
}

// Apply validates and commits one mutation against the expected
// version. Returns ErrConflict when another writer got there first,
// the caller re-reads and retries.
func (self *Arbiter) Apply(ctx context.Context, key model.DepositKey, expectedVersion uint64, mutation *Mutation) (*model.Deposit, error) {
	current, err := self.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if current.Version != expectedVersion {
		return nil, ErrConflict
	}

	// Each path may only carry its own payload
	switch mutation.Path {
	case PathSidecar:
		if mutation.Signer != nil {
			return nil, ErrForbidden
		}
	case PathSigner:
		if mutation.Sidecar != nil {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	updated := *current

	if mutation.Status != "" && mutation.Status != current.Status {
		err = ValidateTransition(current.Status, mutation.Status, mutation.Path)
		if err != nil {
			return nil, err
		}
		updated.Status = mutation.Status
	}
	if mutation.StatusMessage != "" {
		updated.StatusMessage = mutation.StatusMessage
	}

	if mutation.Sidecar != nil {
		applySidecar(&updated, mutation.Sidecar)
	}
	if mutation.Signer != nil {
		applySigner(&updated, mutation.Signer)
	}

	updated.Version = current.Version + 1
	updated.LastUpdatedAt = time.Now().UTC()

	delta, err := Project(current, &updated)
	if err != nil {
		return nil, err
	}

	err = self.store.Update(ctx, &updated, expectedVersion, delta)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func applySidecar(deposit *model.Deposit, update *SidecarUpdate) {
	deposit.BitcoinBlockHeight = sql.NullInt64{Int64: update.BitcoinBlockHeight, Valid: true}
	deposit.Confirmations = sql.NullInt64{Int64: update.Confirmations, Valid: true}
	if update.BitcoinBlockHash != "" {
		deposit.BitcoinBlockHash = sql.NullString{String: update.BitcoinBlockHash, Valid: true}
	}
	if update.ReplacedByTxid != "" {
		deposit.ReplacedByTxid = sql.NullString{String: normalizeTxid(update.ReplacedByTxid), Valid: true}
	}
}

func applySigner(deposit *model.Deposit, update *SignerUpdate) {
	if update.StacksTxid != "" {
		deposit.StacksTxid = sql.NullString{String: update.StacksTxid, Valid: true}
	}
	if update.FulfillmentTxid != "" {
		deposit.FulfillmentTxid = sql.NullString{String: normalizeTxid(update.FulfillmentTxid), Valid: true}
		deposit.FulfillmentTxOutputIndex = sql.NullInt64{Int64: int64(update.FulfillmentTxOutputIndex), Valid: true}
		deposit.FulfillmentBtcFee = sql.NullInt64{Int64: int64(update.FulfillmentBtcFee), Valid: true}
	}
}
