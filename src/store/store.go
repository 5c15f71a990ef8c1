package store

import (
	"context"
	"errors"

	"github.com/sbtc-bridge/registry/src/utils/model"
)

var (
	// No deposit under the requested key
	ErrNotFound = errors.New("deposit not found")

	// Key already exists on insert, or version mismatch on update
	ErrConflict = errors.New("deposit version conflict")

	// Backing store timeout or unavailability, eligible for retry
	ErrTransient = errors.New("transient store error")
)

// Resume point of an index scan, the last row of the previous page.
type Position struct {
	OrderingKey          string
	BitcoinTxid          string
	BitcoinTxOutputIndex uint32
}

// Index rows to remove and (re)write together with a deposit write.
// Inserts are upserts, so replaying the same delta is a no-op.
type Delta struct {
	Delete []model.DepositIndexEntry
	Insert []model.DepositIndexEntry
}

// Durable deposit table plus its secondary indexes.
//
// Implementations must apply Insert and Update atomically: the record
// and the affected index rows either all become visible or none do.
type Store interface {
	// Get returns the deposit under the key or ErrNotFound.
	Get(ctx context.Context, key model.DepositKey) (*model.Deposit, error)

	// Insert writes a new deposit and its full index entry set.
	// Returns ErrConflict when the key already exists.
	Insert(ctx context.Context, deposit *model.Deposit, entries []model.DepositIndexEntry) error

	// Update overwrites the deposit iff its stored version equals
	// expectedVersion, applying the index delta in the same commit.
	// Returns ErrNotFound for an unknown key and ErrConflict on a
	// version mismatch.
	Update(ctx context.Context, deposit *model.Deposit, expectedVersion uint64, delta Delta) error

	// Scan returns up to limit entries of one logical index ordered by
	// (ordering_key, bitcoin_txid, bitcoin_tx_output_index), strictly
	// after the given position when it is not nil.
	Scan(ctx context.Context, kind model.IndexKind, indexKey string, after *Position, limit int) ([]model.DepositIndexEntry, error)
}
