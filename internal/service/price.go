package service

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iShinzoo/LimitOrder/internal/orderbook"
	"github.com/iShinzoo/LimitOrder/internal/service/requests"
	"github.com/shopspring/decimal"
)

// getPrice returns the base/quote exchange rate derived from the upstream
// spot prices. A zero or missing quote price fails closed as not-found
// instead of propagating a division artifact.
func (s *service) getPrice(c *gin.Context) {
	if !s.book.HasKey() {
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgKeyNotConfigured})
		return
	}

	req := requests.NewPrice(c.Request)

	prices, err := s.book.SpotPrices(c.Request.Context(), req.Base, req.Quote)
	if err != nil {
		s.relayPriceError(c, err)
		return
	}

	basePrice, baseOK := lookupPrice(prices, req.Base)
	quotePrice, quoteOK := lookupPrice(prices, req.Quote)
	if !baseOK || !quoteOK || quotePrice.IsZero() {
		c.JSON(http.StatusBadGateway, gin.H{"message": "Base or quote token not found in API response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"price":     basePrice.Div(quotePrice).String(),
		"timestamp": time.Now().UnixMilli(),
	})
}

// lookupPrice finds a token's quote in the upstream map, case-insensitively,
// and rejects values that do not parse as decimals.
func lookupPrice(prices map[string]string, token string) (decimal.Decimal, bool) {
	for addr, value := range prices {
		if strings.EqualFold(addr, token) {
			d, err := decimal.NewFromString(value)
			if err != nil {
				return decimal.Zero, false
			}
			return d, true
		}
	}
	return decimal.Zero, false
}

func (s *service) relayPriceError(c *gin.Context, err error) {
	upstream, ok := err.(*orderbook.Error)
	if !ok {
		s.log.WithError(err).Error("failed to fetch spot prices")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	s.log.WithError(err).Warn("upstream price API error")
	switch upstream.StatusCode {
	case http.StatusUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid API key"})
	case http.StatusTooManyRequests:
		c.JSON(http.StatusTooManyRequests, gin.H{"message": "Rate limit exceeded"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{
			"message": fmt.Sprintf("1inch API error: %d - %s", upstream.StatusCode, upstream.Body),
		})
	}
}
