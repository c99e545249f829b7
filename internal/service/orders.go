package service

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iShinzoo/LimitOrder/internal/orderbook"
	"github.com/iShinzoo/LimitOrder/internal/service/requests"
)

const msgKeyNotConfigured = "API key not configured"

// submitOrder validates a signed order and forwards it to the orderbook.
// Invalid input never reaches the upstream.
func (s *service) submitOrder(c *gin.Context) {
	if !s.book.HasKey() {
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgKeyNotConfigured})
		return
	}

	req, err := requests.NewSubmitOrder(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	raw, err := s.book.SubmitOrder(c.Request.Context(), req)
	if err != nil {
		s.relayError(c, err, "failed to submit order")
		return
	}

	s.log.WithField("order_hash", req.OrderHash).Info("order submitted")
	c.Data(http.StatusOK, "application/json", raw)
}

// listOrders forwards a "orders by maker" query as is, defaults included.
func (s *service) listOrders(c *gin.Context) {
	if !s.book.HasKey() {
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgKeyNotConfigured})
		return
	}

	req, err := requests.NewListOrders(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	raw, err := s.book.OrdersByMaker(c.Request.Context(), req.Address, req.Page, req.Limit, req.SortBy)
	if err != nil {
		s.relayError(c, err, "failed to list orders")
		return
	}

	c.Data(http.StatusOK, "application/json", raw)
}

// cancelOrder is a placeholder: real cancellation requires an on-chain
// transaction, which this service does not perform.
func (s *service) cancelOrder(c *gin.Context) {
	if !s.book.HasKey() {
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgKeyNotConfigured})
		return
	}

	req, err := requests.NewCancelOrder(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Order cancellation requires on-chain transaction",
		"orderHash": req.OrderHash,
	})
}

// relayError maps an upstream failure onto its own status with a combined
// message; anything else becomes a generic internal error.
func (s *service) relayError(c *gin.Context, err error, logMsg string) {
	if upstream, ok := err.(*orderbook.Error); ok {
		s.log.WithError(err).Warn(logMsg)
		c.JSON(upstream.StatusCode, gin.H{
			"message": fmt.Sprintf("1inch API error: %d - %s", upstream.StatusCode, upstream.Body),
		})
		return
	}

	s.log.WithError(err).Error(logMsg)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
