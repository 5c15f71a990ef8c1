package store

import (
	"context"
	"testing"

	"github.com/sbtc-bridge/registry/src/utils/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestMemoryTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryTestSuite))
}

type MemoryTestSuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc
	store  *Memory
}

func (s *MemoryTestSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
}

func (s *MemoryTestSuite) TearDownSuite() {
	s.cancel()
}

func (s *MemoryTestSuite) SetupTest() {
	s.store = NewMemory()
}

func deposit(txid string, outputIndex uint32) *model.Deposit {
	return &model.Deposit{
		BitcoinTxid:          txid,
		BitcoinTxOutputIndex: outputIndex,
		Recipient:            "ST2REHHS5J3CERCRBEPMGH7921Q6PYKAADT7JP2VB",
		Amount:               1000,
		Status:               model.DepositStatusPending,
	}
}

func entry(indexKey, orderingKey, txid string, outputIndex uint32) model.DepositIndexEntry {
	return model.DepositIndexEntry{
		Kind:                 model.IndexByStatus,
		IndexKey:             indexKey,
		OrderingKey:          orderingKey,
		BitcoinTxid:          txid,
		BitcoinTxOutputIndex: outputIndex,
	}
}

func (s *MemoryTestSuite) TestGetUnknownKey() {
	_, err := s.store.Get(s.ctx, model.DepositKey{BitcoinTxid: "aa", BitcoinTxOutputIndex: 0})
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *MemoryTestSuite) TestInsertAndGet() {
	stored := deposit("aa", 1)
	err := s.store.Insert(s.ctx, stored, nil)
	require.NoError(s.T(), err)

	got, err := s.store.Get(s.ctx, model.DepositKey{BitcoinTxid: "aa", BitcoinTxOutputIndex: 1})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), stored.Amount, got.Amount)

	// Returned copy is detached from the stored record
	got.Amount = 5
	again, err := s.store.Get(s.ctx, model.DepositKey{BitcoinTxid: "aa", BitcoinTxOutputIndex: 1})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), uint64(1000), again.Amount)
}

func (s *MemoryTestSuite) TestInsertDuplicate() {
	require.NoError(s.T(), s.store.Insert(s.ctx, deposit("aa", 0), nil))
	assert.ErrorIs(s.T(), s.store.Insert(s.ctx, deposit("aa", 0), nil), ErrConflict)

	// Other outputs of the same transaction are distinct keys
	assert.NoError(s.T(), s.store.Insert(s.ctx, deposit("aa", 1), nil))
}

func (s *MemoryTestSuite) TestUpdateChecksVersion() {
	require.NoError(s.T(), s.store.Insert(s.ctx, deposit("aa", 0), nil))

	updated := deposit("aa", 0)
	updated.Version = 1
	updated.Status = model.DepositStatusConfirmed

	// Wrong expected version
	assert.ErrorIs(s.T(), s.store.Update(s.ctx, updated, 5, Delta{}), ErrConflict)

	// Unknown key
	assert.ErrorIs(s.T(), s.store.Update(s.ctx, deposit("bb", 0), 0, Delta{}), ErrNotFound)

	// Matching version succeeds
	require.NoError(s.T(), s.store.Update(s.ctx, updated, 0, Delta{}))
	got, err := s.store.Get(s.ctx, model.DepositKey{BitcoinTxid: "aa", BitcoinTxOutputIndex: 0})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), uint64(1), got.Version)
	assert.Equal(s.T(), model.DepositStatusConfirmed, got.Status)
}

func (s *MemoryTestSuite) TestUpdateAppliesDelta() {
	stale := entry("pending", "1", "aa", 0)
	require.NoError(s.T(), s.store.Insert(s.ctx, deposit("aa", 0), []model.DepositIndexEntry{stale}))

	fresh := entry("confirmed", "1", "aa", 0)
	updated := deposit("aa", 0)
	updated.Version = 1
	err := s.store.Update(s.ctx, updated, 0, Delta{
		Delete: []model.DepositIndexEntry{stale},
		Insert: []model.DepositIndexEntry{fresh},
	})
	require.NoError(s.T(), err)

	entries, err := s.store.Scan(s.ctx, model.IndexByStatus, "pending", nil, 10)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), entries)

	entries, err = s.store.Scan(s.ctx, model.IndexByStatus, "confirmed", nil, 10)
	require.NoError(s.T(), err)
	assert.Len(s.T(), entries, 1)
}

func (s *MemoryTestSuite) TestScanOrderAndResume() {
	entries := []model.DepositIndexEntry{
		entry("pending", "2", "bb", 0),
		entry("pending", "1", "aa", 0),
		entry("pending", "1", "aa", 2),
		entry("pending", "3", "cc", 0),
	}
	require.NoError(s.T(), s.store.Insert(s.ctx, deposit("aa", 0), entries))

	// Full scan is ordered by (ordering key, txid, output index)
	got, err := s.store.Scan(s.ctx, model.IndexByStatus, "pending", nil, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 4)
	assert.Equal(s.T(), "1", got[0].OrderingKey)
	assert.Equal(s.T(), uint32(0), got[0].BitcoinTxOutputIndex)
	assert.Equal(s.T(), uint32(2), got[1].BitcoinTxOutputIndex)
	assert.Equal(s.T(), "2", got[2].OrderingKey)
	assert.Equal(s.T(), "3", got[3].OrderingKey)

	// Limit cuts the head of the ordering
	got, err = s.store.Scan(s.ctx, model.IndexByStatus, "pending", nil, 2)
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 2)

	// Resuming after the second row yields the remaining two
	after := &Position{
		OrderingKey:          got[1].OrderingKey,
		BitcoinTxid:          got[1].BitcoinTxid,
		BitcoinTxOutputIndex: got[1].BitcoinTxOutputIndex,
	}
	got, err = s.store.Scan(s.ctx, model.IndexByStatus, "pending", after, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 2)
	assert.Equal(s.T(), "2", got[0].OrderingKey)
	assert.Equal(s.T(), "3", got[1].OrderingKey)

	// Other index keys stay invisible
	got, err = s.store.Scan(s.ctx, model.IndexByStatus, "confirmed", nil, 10)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), got)
}
