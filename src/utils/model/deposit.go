package model

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const (
	TableDeposit = "deposits"
)

// Status of a deposit within the peg lifecycle.
type DepositStatus string

const (
	// Deposit was registered but not yet observed with enough confirmations.
	DepositStatusPending DepositStatus = "pending"

	// Sidecar observed sufficient confirmations on the Bitcoin chain.
	DepositStatusConfirmed DepositStatus = "confirmed"

	// Signer attested the peg mint.
	DepositStatusAccepted DepositStatus = "accepted"

	// Funds were returned to the depositor. Terminal.
	DepositStatusReclaimed DepositStatus = "reclaimed"

	// Peg was rejected. Terminal.
	DepositStatusFailed DepositStatus = "failed"
)

func (self DepositStatus) IsValid() bool {
	switch self {
	case DepositStatusPending, DepositStatusConfirmed, DepositStatusAccepted, DepositStatusReclaimed, DepositStatusFailed:
		return true
	}
	return false
}

func (self DepositStatus) IsTerminal() bool {
	return self == DepositStatusReclaimed || self == DepositStatusFailed
}

// Primary key of a deposit, one UTXO of a bitcoin transaction.
type DepositKey struct {
	BitcoinTxid          string
	BitcoinTxOutputIndex uint32
}

func (self DepositKey) String() string {
	return fmt.Sprintf("%s:%d", self.BitcoinTxid, self.BitcoinTxOutputIndex)
}

// Canonical deposit record.
//
// Chain observation fields are owned by the sidecar path, attestation
// fields by the signer path. Version, CreatedAt and LastUpdatedAt are
// maintained by the registry itself.
type Deposit struct {
	BitcoinTxid          string `gorm:"primaryKey"`
	BitcoinTxOutputIndex uint32 `gorm:"primaryKey"`

	// Optimistic concurrency counter, incremented on every successful write
	Version uint64

	Recipient      string
	Amount         uint64
	MaxFee         uint64
	LockTime       uint32
	DepositScript  string
	ReclaimScript  string
	ReclaimPubkeys pq.StringArray `gorm:"type:text[]"`

	Status        DepositStatus
	StatusMessage string

	// Sidecar payload, chain observation data
	BitcoinBlockHeight sql.NullInt64
	BitcoinBlockHash   sql.NullString
	Confirmations      sql.NullInt64
	ReplacedByTxid     sql.NullString

	// Signer payload, attestation data
	StacksTxid               sql.NullString
	FulfillmentTxid          sql.NullString
	FulfillmentTxOutputIndex sql.NullInt64
	FulfillmentBtcFee        sql.NullInt64

	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

func (Deposit) TableName() string {
	return TableDeposit
}

func (self *Deposit) Key() DepositKey {
	return DepositKey{
		BitcoinTxid:          self.BitcoinTxid,
		BitcoinTxOutputIndex: self.BitcoinTxOutputIndex,
	}
}
