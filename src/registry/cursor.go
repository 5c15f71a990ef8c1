package registry

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/sbtc-bridge/registry/src/store"
	"github.com/sbtc-bridge/registry/src/utils/model"
)

// Tokens are self-describing: they embed the index kind and the filter
// key they were produced for, so decoding one against a different list
// call fails closed instead of scanning the wrong index.
type cursorPayload struct {
	Kind                 model.IndexKind `json:"kind"`
	IndexKey             string          `json:"index_key"`
	OrderingKey          string          `json:"ordering_key"`
	BitcoinTxid          string          `json:"bitcoin_txid"`
	BitcoinTxOutputIndex uint32          `json:"bitcoin_tx_output_index"`
}

func EncodeCursor(kind model.IndexKind, indexKey string, last *model.DepositIndexEntry) string {
	payload := cursorPayload{
		Kind:                 kind,
		IndexKey:             indexKey,
		OrderingKey:          last.OrderingKey,
		BitcoinTxid:          last.BitcoinTxid,
		BitcoinTxOutputIndex: last.BitcoinTxOutputIndex,
	}

	// Marshaling a flat struct of plain fields cannot fail
	buf, _ := json.Marshal(&payload)
	return base64.RawURLEncoding.EncodeToString(buf)
}

func DecodeCursor(token string, kind model.IndexKind, indexKey string) (*store.Position, error) {
	buf, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	var payload cursorPayload
	decoder := json.NewDecoder(bytes.NewReader(buf))
	decoder.DisallowUnknownFields()
	err = decoder.Decode(&payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	if payload.Kind != kind || payload.IndexKey != indexKey {
		return nil, fmt.Errorf("%w: token was produced for a different query", ErrInvalidCursor)
	}
	if payload.OrderingKey == "" || payload.BitcoinTxid == "" {
		return nil, fmt.Errorf("%w: incomplete resume point", ErrInvalidCursor)
	}

	return &store.Position{
		OrderingKey:          payload.OrderingKey,
		BitcoinTxid:          payload.BitcoinTxid,
		BitcoinTxOutputIndex: payload.BitcoinTxOutputIndex,
	}, nil
}
