package request

type CreateDeposit struct {
	BitcoinTxid          string   `json:"bitcoinTxid" binding:"required"`
	BitcoinTxOutputIndex uint32   `json:"bitcoinTxOutputIndex"`
	Recipient            string   `json:"recipient" binding:"required"`
	Amount               uint64   `json:"amount"`
	MaxFee               uint64   `json:"maxFee"`
	LockTime             uint32   `json:"lockTime"`
	DepositScript        string   `json:"depositScript"`
	ReclaimScript        string   `json:"reclaimScript"`
	ReclaimPubkeys       []string `json:"reclaimPubkeys"`
}

type SidecarPayload struct {
	BitcoinBlockHeight int64  `json:"bitcoinBlockHeight"`
	BitcoinBlockHash   string `json:"bitcoinBlockHash"`
	Confirmations      int64  `json:"confirmations"`
	ReplacedByTxid     string `json:"replacedByTxid"`
}

type SignerPayload struct {
	StacksTxid               string `json:"stacksTxid"`
	FulfillmentTxid          string `json:"fulfillmentTxid"`
	FulfillmentTxOutputIndex uint32 `json:"fulfillmentTxOutputIndex"`
	FulfillmentBtcFee        uint64 `json:"fulfillmentBtcFee"`
}

type DepositUpdate struct {
	BitcoinTxid          string          `json:"bitcoinTxid" binding:"required"`
	BitcoinTxOutputIndex uint32          `json:"bitcoinTxOutputIndex"`
	Status               string          `json:"status"`
	StatusMessage        string          `json:"statusMessage"`
	Sidecar              *SidecarPayload `json:"sidecar"`
	Signer               *SignerPayload  `json:"signer"`
}

type UpdateDeposits struct {
	Deposits []DepositUpdate `json:"deposits" binding:"required"`
}
