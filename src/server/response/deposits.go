package response

import (
	"time"

	"github.com/sbtc-bridge/registry/src/registry"
	"github.com/sbtc-bridge/registry/src/utils/model"
)

type Deposit struct {
	BitcoinTxid          string   `json:"bitcoinTxid"`
	BitcoinTxOutputIndex uint32   `json:"bitcoinTxOutputIndex"`
	Version              uint64   `json:"version"`
	Recipient            string   `json:"recipient"`
	Amount               uint64   `json:"amount"`
	MaxFee               uint64   `json:"maxFee"`
	LockTime             uint32   `json:"lockTime"`
	DepositScript        string   `json:"depositScript"`
	ReclaimScript        string   `json:"reclaimScript"`
	ReclaimPubkeys       []string `json:"reclaimPubkeys"`
	Status               string   `json:"status"`
	StatusMessage        string   `json:"statusMessage,omitempty"`

	BitcoinBlockHeight *int64  `json:"bitcoinBlockHeight,omitempty"`
	BitcoinBlockHash   *string `json:"bitcoinBlockHash,omitempty"`
	Confirmations      *int64  `json:"confirmations,omitempty"`
	ReplacedByTxid     *string `json:"replacedByTxid,omitempty"`

	StacksTxid               *string `json:"stacksTxid,omitempty"`
	FulfillmentTxid          *string `json:"fulfillmentTxid,omitempty"`
	FulfillmentTxOutputIndex *int64  `json:"fulfillmentTxOutputIndex,omitempty"`
	FulfillmentBtcFee        *int64  `json:"fulfillmentBtcFee,omitempty"`

	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

type DepositInfo struct {
	BitcoinTxid          string    `json:"bitcoinTxid"`
	BitcoinTxOutputIndex uint32    `json:"bitcoinTxOutputIndex"`
	Recipient            string    `json:"recipient"`
	Amount               uint64    `json:"amount"`
	Status               string    `json:"status"`
	DepositScript        string    `json:"depositScript"`
	ReclaimScript        string    `json:"reclaimScript"`
	CreatedAt            time.Time `json:"createdAt"`
	LastUpdatedAt        time.Time `json:"lastUpdatedAt"`
}

type GetDeposits struct {
	Deposits  []DepositInfo `json:"deposits"`
	NextToken string        `json:"nextToken,omitempty"`
}

// Transaction listings expose the full records, output by output
type GetDepositsForTransaction struct {
	Deposits  []Deposit `json:"deposits"`
	NextToken string    `json:"nextToken,omitempty"`
}

type UpdateFailure struct {
	BitcoinTxid          string `json:"bitcoinTxid"`
	BitcoinTxOutputIndex uint32 `json:"bitcoinTxOutputIndex"`
	Error                string `json:"error"`
}

type UpdateDeposits struct {
	Updated  []Deposit       `json:"updated"`
	Failures []UpdateFailure `json:"failures"`
}

func DepositToResponse(deposit *model.Deposit) (out Deposit) {
	out = Deposit{
		BitcoinTxid:          deposit.BitcoinTxid,
		BitcoinTxOutputIndex: deposit.BitcoinTxOutputIndex,
		Version:              deposit.Version,
		Recipient:            deposit.Recipient,
		Amount:               deposit.Amount,
		MaxFee:               deposit.MaxFee,
		LockTime:             deposit.LockTime,
		DepositScript:        deposit.DepositScript,
		ReclaimScript:        deposit.ReclaimScript,
		ReclaimPubkeys:       deposit.ReclaimPubkeys,
		Status:               string(deposit.Status),
		StatusMessage:        deposit.StatusMessage,
		CreatedAt:            deposit.CreatedAt,
		LastUpdatedAt:        deposit.LastUpdatedAt,
	}

	if deposit.BitcoinBlockHeight.Valid {
		out.BitcoinBlockHeight = &deposit.BitcoinBlockHeight.Int64
	}
	if deposit.BitcoinBlockHash.Valid {
		out.BitcoinBlockHash = &deposit.BitcoinBlockHash.String
	}
	if deposit.Confirmations.Valid {
		out.Confirmations = &deposit.Confirmations.Int64
	}
	if deposit.ReplacedByTxid.Valid {
		out.ReplacedByTxid = &deposit.ReplacedByTxid.String
	}
	if deposit.StacksTxid.Valid {
		out.StacksTxid = &deposit.StacksTxid.String
	}
	if deposit.FulfillmentTxid.Valid {
		out.FulfillmentTxid = &deposit.FulfillmentTxid.String
	}
	if deposit.FulfillmentTxOutputIndex.Valid {
		out.FulfillmentTxOutputIndex = &deposit.FulfillmentTxOutputIndex.Int64
	}
	if deposit.FulfillmentBtcFee.Valid {
		out.FulfillmentBtcFee = &deposit.FulfillmentBtcFee.Int64
	}
	return
}

func PageToResponse(page *registry.Page) *GetDeposits {
	out := &GetDeposits{
		Deposits:  make([]DepositInfo, len(page.Items)),
		NextToken: page.NextToken,
	}
	for i, item := range page.Items {
		out.Deposits[i] = DepositInfo{
			BitcoinTxid:          item.BitcoinTxid,
			BitcoinTxOutputIndex: item.BitcoinTxOutputIndex,
			Recipient:            item.Recipient,
			Amount:               item.Amount,
			Status:               string(item.Status),
			DepositScript:        item.DepositScript,
			ReclaimScript:        item.ReclaimScript,
			CreatedAt:            item.CreatedAt,
			LastUpdatedAt:        item.LastUpdatedAt,
		}
	}
	return out
}

func TransactionPageToResponse(page *registry.TransactionPage) *GetDepositsForTransaction {
	out := &GetDepositsForTransaction{
		Deposits:  make([]Deposit, len(page.Items)),
		NextToken: page.NextToken,
	}
	for i, item := range page.Items {
		out.Deposits[i] = DepositToResponse(item)
	}
	return out
}

func UpdateResultsToResponse(results []registry.UpdateResult) *UpdateDeposits {
	out := &UpdateDeposits{
		Updated:  make([]Deposit, 0, len(results)),
		Failures: make([]UpdateFailure, 0),
	}
	for i := range results {
		if results[i].Err != nil {
			out.Failures = append(out.Failures, UpdateFailure{
				BitcoinTxid:          results[i].BitcoinTxid,
				BitcoinTxOutputIndex: results[i].BitcoinTxOutputIndex,
				Error:                results[i].Err.Error(),
			})
			continue
		}
		out.Updated = append(out.Updated, DepositToResponse(results[i].Deposit))
	}
	return out
}
