package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Every request gets an id, either the caller's or a fresh one.
// The id is echoed back and attached to the request log line.
func (self *Server) handleRequestId(c *gin.Context) {
	requestId := c.GetHeader("x-request-id")
	if requestId == "" {
		requestId = uuid.NewString()
	}
	c.Header("x-request-id", requestId)

	c.Next()

	self.Log.
		WithField("request_id", requestId).
		WithField("method", c.Request.Method).
		WithField("path", c.Request.URL.Path).
		WithField("status", c.Writer.Status()).
		Debug("Handled request")
}

func (self *Server) handleTimeout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), self.Config.Api.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// Guards the update paths. An empty key list disables the check,
// that is meant for development setups only.
func (self *Server) handleApiKey(c *gin.Context) {
	if len(self.Config.Api.UpdateApiKeys) == 0 {
		c.Next()
		return
	}

	key := c.GetHeader("x-api-key")
	for _, allowed := range self.Config.Api.UpdateApiKeys {
		if key == allowed {
			c.Next()
			return
		}
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
}
