package mem

import (
	"strings"
	"sync"

	"github.com/iShinzoo/LimitOrder/internal/data"
)

type priceCache struct {
	mu     sync.RWMutex
	quotes map[string]data.Quote
}

func NewPriceCache() data.PriceCache {
	return &priceCache{quotes: make(map[string]data.Quote)}
}

func (c *priceCache) Get(base, quote string) (data.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[pairKey(base, quote)]
	return q, ok
}

func (c *priceCache) Put(base, quote string, q data.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes[pairKey(base, quote)] = q
}

func pairKey(base, quote string) string {
	return strings.ToLower(base) + "_" + strings.ToLower(quote)
}
