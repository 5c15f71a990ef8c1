package server

import (
	"errors"
	"net/http"

	"github.com/sbtc-bridge/registry/src/registry"

	"github.com/gin-gonic/gin"
)

// Maps registry errors onto HTTP statuses. Anything unexpected is a
// plain 500 without the internal message.
func (self *Server) replyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, registry.ErrValidation),
		errors.Is(err, registry.ErrInvalidCursor),
		errors.Is(err, registry.ErrInvalidTransition),
		errors.Is(err, registry.ErrProjection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, registry.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "deposit not found"})
	case errors.Is(err, registry.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, registry.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, registry.ErrTransient):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable"})
	default:
		self.Log.WithError(err).Error("Failed to handle request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
