package registry

import (
	"encoding/base64"
	"testing"

	"github.com/sbtc-bridge/registry/src/utils/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry() *model.DepositIndexEntry {
	return &model.DepositIndexEntry{
		Kind:                 model.IndexByStatus,
		IndexKey:             string(model.DepositStatusPending),
		OrderingKey:          "00000000000000000042",
		BitcoinTxid:          "78b3e06ec6c8e022f77c5a4a4d494d235c5e4eabecd24c7dcd8b2a8e37bf0f1a",
		BitcoinTxOutputIndex: 7,
	}
}

func TestCursorRoundtrip(t *testing.T) {
	entry := testEntry()
	token := EncodeCursor(model.IndexByStatus, entry.IndexKey, entry)

	position, err := DecodeCursor(token, model.IndexByStatus, entry.IndexKey)
	require.NoError(t, err)
	assert.Equal(t, entry.OrderingKey, position.OrderingKey)
	assert.Equal(t, entry.BitcoinTxid, position.BitcoinTxid)
	assert.Equal(t, entry.BitcoinTxOutputIndex, position.BitcoinTxOutputIndex)
}

func TestCursorRejectsGarbage(t *testing.T) {
	_, err := DecodeCursor("not base64 at all!!", model.IndexByStatus, "pending")
	assert.ErrorIs(t, err, ErrInvalidCursor)

	// Valid base64, not json
	token := base64.RawURLEncoding.EncodeToString([]byte("hello"))
	_, err = DecodeCursor(token, model.IndexByStatus, "pending")
	assert.ErrorIs(t, err, ErrInvalidCursor)

	// Valid json, unknown fields
	token = base64.RawURLEncoding.EncodeToString([]byte(`{"surprise":true}`))
	_, err = DecodeCursor(token, model.IndexByStatus, "pending")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestCursorRejectsDifferentQuery(t *testing.T) {
	entry := testEntry()
	token := EncodeCursor(model.IndexByStatus, entry.IndexKey, entry)

	// Same kind, different filter key
	_, err := DecodeCursor(token, model.IndexByStatus, string(model.DepositStatusConfirmed))
	assert.ErrorIs(t, err, ErrInvalidCursor)

	// Different kind entirely
	_, err = DecodeCursor(token, model.IndexByRecipient, entry.IndexKey)
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestCursorRejectsIncompleteResumePoint(t *testing.T) {
	entry := testEntry()
	entry.OrderingKey = ""
	token := EncodeCursor(model.IndexByStatus, entry.IndexKey, entry)

	_, err := DecodeCursor(token, model.IndexByStatus, entry.IndexKey)
	assert.ErrorIs(t, err, ErrInvalidCursor)
}
