package registry

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/sbtc-bridge/registry/src/utils/model"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

type CreateDepositRequest struct {
	BitcoinTxid          string
	BitcoinTxOutputIndex uint32
	Recipient            string
	Amount               uint64
	MaxFee               uint64
	LockTime             uint32
	DepositScript        string
	ReclaimScript        string

	// X-only pubkeys authorizing the reclaim, 32 byte hex each
	ReclaimPubkeys []string
}

func (self *CreateDepositRequest) Validate() error {
	_, err := chainhash.NewHashFromStr(self.BitcoinTxid)
	if err != nil {
		return &ValidationError{Field: "bitcoin_txid", Reason: "not a valid transaction id"}
	}
	if self.Recipient == "" {
		return &ValidationError{Field: "recipient", Reason: "must not be empty"}
	}
	if self.Amount == 0 {
		return &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if len(self.ReclaimPubkeys) == 0 {
		return &ValidationError{Field: "reclaim_pubkeys", Reason: "must not be empty"}
	}
	for _, pubkey := range self.ReclaimPubkeys {
		raw, err := hex.DecodeString(pubkey)
		if err != nil || len(raw) != 32 {
			return &ValidationError{Field: "reclaim_pubkeys", Reason: "not a valid x-only pubkey: " + pubkey}
		}
	}
	return nil
}

// Chain observation data, settable only through the sidecar path.
type SidecarUpdate struct {
	BitcoinBlockHeight int64
	BitcoinBlockHash   string
	Confirmations      int64

	// Transaction that replaced this one during an RBF
	ReplacedByTxid string
}

// Attestation data, settable only through the signer path.
type SignerUpdate struct {
	StacksTxid               string
	FulfillmentTxid          string
	FulfillmentTxOutputIndex uint32
	FulfillmentBtcFee        uint64
}

// One item of a batch update. Status left empty keeps the current one.
type UpdateDepositRequest struct {
	BitcoinTxid          string
	BitcoinTxOutputIndex uint32
	Status               model.DepositStatus
	StatusMessage        string
	Sidecar              *SidecarUpdate
	Signer               *SignerUpdate
}

// Outcome of one batch item. Failures carry the key of the item they
// belong to, partial success of a batch is expected.
type UpdateResult struct {
	BitcoinTxid          string
	BitcoinTxOutputIndex uint32
	Deposit              *model.Deposit
	Err                  error
}

// Reduced deposit view served from index projections.
type DepositInfo struct {
	BitcoinTxid          string
	BitcoinTxOutputIndex uint32
	Recipient            string
	Amount               uint64
	Status               model.DepositStatus
	DepositScript        string
	ReclaimScript        string
	CreatedAt            time.Time
	LastUpdatedAt        time.Time
}

// One page of a list operation. NextToken is empty on the final page.
type Page struct {
	Items     []DepositInfo
	NextToken string
}

// One page of a transaction listing. Carries full records because
// callers inspect per-output state like version and fulfillment data.
type TransactionPage struct {
	Items     []*model.Deposit
	NextToken string
}

func infoFromEntry(entry *model.DepositIndexEntry) DepositInfo {
	return DepositInfo{
		BitcoinTxid:          entry.BitcoinTxid,
		BitcoinTxOutputIndex: entry.BitcoinTxOutputIndex,
		Recipient:            entry.Recipient,
		Amount:               entry.Amount,
		Status:               entry.Status,
		DepositScript:        entry.DepositScript,
		ReclaimScript:        entry.ReclaimScript,
		CreatedAt:            entry.CreatedAt,
		LastUpdatedAt:        entry.LastUpdatedAt,
	}
}

func normalizeTxid(txid string) string {
	return strings.ToLower(txid)
}
