package model

import (
	"time"
)

const (
	TableDepositIndexEntry = "deposit_index_entries"
)

// Kind of a secondary index over deposits.
type IndexKind string

const (
	IndexByStatus         IndexKind = "by_status"
	IndexByRecipient      IndexKind = "by_recipient"
	IndexByReclaimPubkeys IndexKind = "by_reclaim_pubkeys"
	IndexByTransaction    IndexKind = "by_transaction"
)

func (self IndexKind) IsValid() bool {
	switch self {
	case IndexByStatus, IndexByRecipient, IndexByReclaimPubkeys, IndexByTransaction:
		return true
	}
	return false
}

// Derived entry of one secondary index.
//
// Entries are exclusively owned by the index projector and regenerated
// whenever the indexed attributes of the owning deposit change. Beyond
// the pointer back to the deposit they project the fields needed to
// serve list responses without touching the primary table.
type DepositIndexEntry struct {
	Kind        IndexKind `gorm:"primaryKey"`
	IndexKey    string    `gorm:"primaryKey"`
	OrderingKey string    `gorm:"primaryKey"`

	BitcoinTxid          string `gorm:"primaryKey"`
	BitcoinTxOutputIndex uint32 `gorm:"primaryKey"`

	// Projected deposit attributes
	Recipient     string
	Amount        uint64
	Status        DepositStatus
	DepositScript string
	ReclaimScript string
	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

func (DepositIndexEntry) TableName() string {
	return TableDepositIndexEntry
}

func (self *DepositIndexEntry) DepositKey() DepositKey {
	return DepositKey{
		BitcoinTxid:          self.BitcoinTxid,
		BitcoinTxOutputIndex: self.BitcoinTxOutputIndex,
	}
}

// True when both entries address the same index row
func (self *DepositIndexEntry) SameRow(other *DepositIndexEntry) bool {
	return self.Kind == other.Kind &&
		self.IndexKey == other.IndexKey &&
		self.OrderingKey == other.OrderingKey &&
		self.BitcoinTxid == other.BitcoinTxid &&
		self.BitcoinTxOutputIndex == other.BitcoinTxOutputIndex
}
