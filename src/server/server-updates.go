package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbtc-bridge/registry/src/registry"
	"github.com/sbtc-bridge/registry/src/server/request"
	"github.com/sbtc-bridge/registry/src/server/response"
	"github.com/sbtc-bridge/registry/src/utils/model"

	"github.com/gin-gonic/gin"
)

var errInvalidPageSize = errors.New("pageSize is not a valid number")

// Chain observation updates, reserved for the deposit sidecar.
func (self *Server) onUpdateDepositsSidecar(c *gin.Context) {
	self.onUpdateDeposits(c, self.registry.UpdateViaSidecar)
}

// Attestation updates, reserved for the peg signers.
func (self *Server) onUpdateDepositsSigner(c *gin.Context) {
	self.onUpdateDeposits(c, self.registry.UpdateViaSigner)
}

type updateFunc = func(ctx context.Context, batch []registry.UpdateDepositRequest) []registry.UpdateResult

func (self *Server) onUpdateDeposits(c *gin.Context, update updateFunc) {
	var in request.UpdateDeposits
	err := c.ShouldBindJSON(&in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(in.Deposits) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deposits must not be empty"})
		return
	}

	batch := make([]registry.UpdateDepositRequest, len(in.Deposits))
	for i := range in.Deposits {
		batch[i] = toUpdateRequest(&in.Deposits[i])
	}

	results := update(c.Request.Context(), batch)
	c.JSON(self.updateStatus(results), response.UpdateResultsToResponse(results))
}

// Mirrors partial batch success in the status code. All failed means
// the caller got nothing done, that is not a 200.
func (self *Server) updateStatus(results []registry.UpdateResult) int {
	numFailed := 0
	for i := range results {
		if results[i].Err != nil {
			numFailed++
		}
	}
	switch numFailed {
	case 0:
		return http.StatusOK
	case len(results):
		return http.StatusConflict
	default:
		return http.StatusMultiStatus
	}
}

func toUpdateRequest(in *request.DepositUpdate) (out registry.UpdateDepositRequest) {
	out = registry.UpdateDepositRequest{
		BitcoinTxid:          in.BitcoinTxid,
		BitcoinTxOutputIndex: in.BitcoinTxOutputIndex,
		Status:               model.DepositStatus(in.Status),
		StatusMessage:        in.StatusMessage,
	}
	if in.Sidecar != nil {
		out.Sidecar = &registry.SidecarUpdate{
			BitcoinBlockHeight: in.Sidecar.BitcoinBlockHeight,
			BitcoinBlockHash:   in.Sidecar.BitcoinBlockHash,
			Confirmations:      in.Sidecar.Confirmations,
			ReplacedByTxid:     in.Sidecar.ReplacedByTxid,
		}
	}
	if in.Signer != nil {
		out.Signer = &registry.SignerUpdate{
			StacksTxid:               in.Signer.StacksTxid,
			FulfillmentTxid:          in.Signer.FulfillmentTxid,
			FulfillmentTxOutputIndex: in.Signer.FulfillmentTxOutputIndex,
			FulfillmentBtcFee:        in.Signer.FulfillmentBtcFee,
		}
	}
	return
}
