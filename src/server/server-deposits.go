package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sbtc-bridge/registry/src/registry"
	"github.com/sbtc-bridge/registry/src/server/request"
	"github.com/sbtc-bridge/registry/src/server/response"
	"github.com/sbtc-bridge/registry/src/utils/model"

	"github.com/gin-gonic/gin"
)

func (self *Server) onCreateDeposit(c *gin.Context) {
	var in request.CreateDeposit
	err := c.ShouldBindJSON(&in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deposit, err := self.registry.Create(c.Request.Context(), &registry.CreateDepositRequest{
		BitcoinTxid:          in.BitcoinTxid,
		BitcoinTxOutputIndex: in.BitcoinTxOutputIndex,
		Recipient:            in.Recipient,
		Amount:               in.Amount,
		MaxFee:               in.MaxFee,
		LockTime:             in.LockTime,
		DepositScript:        in.DepositScript,
		ReclaimScript:        in.ReclaimScript,
		ReclaimPubkeys:       in.ReclaimPubkeys,
	})
	if err != nil {
		self.replyError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.DepositToResponse(deposit))
}

func (self *Server) onGetDeposit(c *gin.Context) {
	index, err := strconv.ParseUint(c.Param("index"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "output index is not a valid number"})
		return
	}

	deposit, err := self.registry.Get(c.Request.Context(), c.Param("txid"), uint32(index))
	if err != nil {
		self.replyError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.DepositToResponse(deposit))
}

func (self *Server) onGetDepositsForTransaction(c *gin.Context) {
	nextToken, pageSize, err := self.paging(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := self.registry.ListByTransaction(c.Request.Context(), c.Param("txid"), nextToken, pageSize)
	if err != nil {
		self.replyError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.TransactionPageToResponse(page))
}

// One of status, recipient or reclaimPubkeys picks the listing.
// Exactly one filter has to be present.
func (self *Server) onGetDeposits(c *gin.Context) {
	nextToken, pageSize, err := self.paging(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := c.Query("status")
	recipient := c.Query("recipient")
	reclaimPubkeys := c.Query("reclaimPubkeys")

	numFilters := 0
	for _, filter := range []string{status, recipient, reclaimPubkeys} {
		if filter != "" {
			numFilters++
		}
	}
	if numFilters != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of status, recipient, reclaimPubkeys is required"})
		return
	}

	var page *registry.Page
	switch {
	case status != "":
		page, err = self.registry.ListByStatus(c.Request.Context(), model.DepositStatus(status), nextToken, pageSize)
	case recipient != "":
		page, err = self.registry.ListByRecipient(c.Request.Context(), recipient, nextToken, pageSize)
	default:
		// Dash-separated, pubkeys are plain hex
		page, err = self.registry.ListByReclaimPubkeys(c.Request.Context(), strings.Split(reclaimPubkeys, "-"), nextToken, pageSize)
	}
	if err != nil {
		self.replyError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.PageToResponse(page))
}

func (self *Server) paging(c *gin.Context) (nextToken string, pageSize int, err error) {
	nextToken = c.Query("nextToken")

	raw := c.Query("pageSize")
	if raw == "" {
		return
	}

	pageSize, err = strconv.Atoi(raw)
	if err != nil {
		err = errInvalidPageSize
		return
	}
	return
}
