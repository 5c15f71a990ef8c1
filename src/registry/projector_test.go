package registry

import (
	"testing"
	"time"

	"github.com/sbtc-bridge/registry/src/utils/model"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeposit() *model.Deposit {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &model.Deposit{
		BitcoinTxid:          "78b3e06ec6c8e022f77c5a4a4d494d235c5e4eabecd24c7dcd8b2a8e37bf0f1a",
		BitcoinTxOutputIndex: 3,
		Version:              0,
		Recipient:            "ST2REHHS5J3CERCRBEPMGH7921Q6PYKAADT7JP2VB",
		Amount:               250000,
		ReclaimPubkeys:       pq.StringArray{"aa", "bb"},
		Status:               model.DepositStatusPending,
		CreatedAt:            now,
		LastUpdatedAt:        now,
	}
}

func TestProjectEntriesCoverAllIndexes(t *testing.T) {
	deposit := testDeposit()
	entries, err := projectEntries(deposit)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	kinds := make(map[model.IndexKind]model.DepositIndexEntry)
	for _, entry := range entries {
		kinds[entry.Kind] = entry
	}

	assert.Equal(t, string(model.DepositStatusPending), kinds[model.IndexByStatus].IndexKey)
	assert.Equal(t, deposit.Recipient, kinds[model.IndexByRecipient].IndexKey)
	assert.Equal(t, "aa-bb", kinds[model.IndexByReclaimPubkeys].IndexKey)
	assert.Equal(t, deposit.BitcoinTxid, kinds[model.IndexByTransaction].IndexKey)

	// Each entry carries the full projected view
	for _, entry := range entries {
		assert.Equal(t, deposit.BitcoinTxid, entry.BitcoinTxid)
		assert.Equal(t, deposit.BitcoinTxOutputIndex, entry.BitcoinTxOutputIndex)
		assert.Equal(t, deposit.Recipient, entry.Recipient)
		assert.Equal(t, deposit.Amount, entry.Amount)
		assert.Equal(t, deposit.Status, entry.Status)
	}

	// Transaction index orders by output, the rest by creation time
	assert.Equal(t, "0000000003", kinds[model.IndexByTransaction].OrderingKey)
	assert.Equal(t, kinds[model.IndexByStatus].OrderingKey, kinds[model.IndexByRecipient].OrderingKey)
}

func TestProjectEntriesRequireIndexableFields(t *testing.T) {
	deposit := testDeposit()
	deposit.Recipient = ""
	_, err := projectEntries(deposit)
	assert.ErrorIs(t, err, ErrProjection)

	deposit = testDeposit()
	deposit.ReclaimPubkeys = nil
	_, err = projectEntries(deposit)
	assert.ErrorIs(t, err, ErrProjection)

	deposit = testDeposit()
	deposit.Status = "limbo"
	_, err = projectEntries(deposit)
	assert.ErrorIs(t, err, ErrProjection)
}

func TestProjectCreateHasNoDeletes(t *testing.T) {
	delta, err := Project(nil, testDeposit())
	require.NoError(t, err)
	assert.Empty(t, delta.Delete)
	assert.Len(t, delta.Insert, 4)
}

func TestProjectStatusChangeMovesStatusRow(t *testing.T) {
	before := testDeposit()
	after := testDeposit()
	after.Status = model.DepositStatusConfirmed
	after.Version = 1

	delta, err := Project(before, after)
	require.NoError(t, err)

	// Only the status index row changed address
	require.Len(t, delta.Delete, 1)
	assert.Equal(t, model.IndexByStatus, delta.Delete[0].Kind)
	assert.Equal(t, string(model.DepositStatusPending), delta.Delete[0].IndexKey)

	// All four rows are rewritten so projections stay fresh
	assert.Len(t, delta.Insert, 4)
	for _, entry := range delta.Insert {
		assert.Equal(t, model.DepositStatusConfirmed, entry.Status)
	}
}

func TestProjectUnchangedDepositDeletesNothing(t *testing.T) {
	before := testDeposit()
	after := testDeposit()
	after.Version = 1

	delta, err := Project(before, after)
	require.NoError(t, err)
	assert.Empty(t, delta.Delete)
	assert.Len(t, delta.Insert, 4)
}

func TestReclaimPubkeysKeyIsOrderInvariant(t *testing.T) {
	assert.Equal(t, ReclaimPubkeysKey([]string{"bb", "aa"}), ReclaimPubkeysKey([]string{"aa", "bb"}))
	assert.Equal(t, "aa-bb", ReclaimPubkeysKey([]string{"BB", "aa"}))
	assert.Equal(t, "aa", ReclaimPubkeysKey([]string{"AA"}))
}

func TestDescendingOrderingKeySortsNewestFirst(t *testing.T) {
	older := descendingOrderingKey(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	newer := descendingOrderingKey(time.Date(2024, 5, 1, 12, 0, 1, 0, time.UTC))
	assert.Less(t, newer, older)
}
