package store

import (
	"context"
	"sort"
	"sync"

	"github.com/sbtc-bridge/registry/src/utils/model"
)

type entryRow struct {
	Kind                 model.IndexKind
	IndexKey             string
	OrderingKey          string
	BitcoinTxid          string
	BitcoinTxOutputIndex uint32
}

// In-memory Store used in tests and development mode.
// Mirrors the Postgres implementation's atomicity per call.
type Memory struct {
	mtx      sync.RWMutex
	deposits map[model.DepositKey]model.Deposit
	entries  map[entryRow]model.DepositIndexEntry
}

func NewMemory() (self *Memory) {
	self = new(Memory)
	self.deposits = make(map[model.DepositKey]model.Deposit)
	self.entries = make(map[entryRow]model.DepositIndexEntry)
	return
}

func rowOf(entry *model.DepositIndexEntry) entryRow {
	return entryRow{
		Kind:                 entry.Kind,
		IndexKey:             entry.IndexKey,
		OrderingKey:          entry.OrderingKey,
		BitcoinTxid:          entry.BitcoinTxid,
		BitcoinTxOutputIndex: entry.BitcoinTxOutputIndex,
	}
}

func (self *Memory) Get(ctx context.Context, key model.DepositKey) (*model.Deposit, error) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	deposit, ok := self.deposits[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := deposit
	return &out, nil
}

func (self *Memory) Insert(ctx context.Context, deposit *model.Deposit, entries []model.DepositIndexEntry) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	key := deposit.Key()
	if _, ok := self.deposits[key]; ok {
		return ErrConflict
	}

	self.deposits[key] = *deposit
	for _, entry := range entries {
		self.entries[rowOf(&entry)] = entry
	}
	return nil
}

func (self *Memory) Update(ctx context.Context, deposit *model.Deposit, expectedVersion uint64, delta Delta) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	key := deposit.Key()
	stored, ok := self.deposits[key]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != expectedVersion {
		return ErrConflict
	}

	self.deposits[key] = *deposit
	for _, entry := range delta.Delete {
		delete(self.entries, rowOf(&entry))
	}
	for _, entry := range delta.Insert {
		self.entries[rowOf(&entry)] = entry
	}
	return nil
}

func (self *Memory) Scan(ctx context.Context, kind model.IndexKind, indexKey string, after *Position, limit int) ([]model.DepositIndexEntry, error) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	matching := make([]model.DepositIndexEntry, 0)
	for row, entry := range self.entries {
		if row.Kind != kind || row.IndexKey != indexKey {
			continue
		}
		if after != nil && !positionLess(after, &entry) {
			continue
		}
		matching = append(matching, entry)
	}

	sort.Slice(matching, func(i, j int) bool {
		return entryLess(&matching[i], &matching[j])
	})

	if limit > 0 && len(matching) > limit {
		matching = matching[:limit]
	}
	return matching, nil
}

// True when the entry sorts strictly after the position
func positionLess(after *Position, entry *model.DepositIndexEntry) bool {
	if after.OrderingKey != entry.OrderingKey {
		return after.OrderingKey < entry.OrderingKey
	}
	if after.BitcoinTxid != entry.BitcoinTxid {
		return after.BitcoinTxid < entry.BitcoinTxid
	}
	return after.BitcoinTxOutputIndex < entry.BitcoinTxOutputIndex
}

func entryLess(a, b *model.DepositIndexEntry) bool {
	if a.OrderingKey != b.OrderingKey {
		return a.OrderingKey < b.OrderingKey
	}
	if a.BitcoinTxid != b.BitcoinTxid {
		return a.BitcoinTxid < b.BitcoinTxid
	}
	return a.BitcoinTxOutputIndex < b.BitcoinTxOutputIndex
}
