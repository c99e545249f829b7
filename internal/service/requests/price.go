package requests

import (
	"net/http"
	"strings"
)

const (
	// native-asset placeholder and USDC, the pair served when the caller
	// does not name one
	DefaultBase  = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"
	DefaultQuote = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
)

type Price struct {
	Base  string
	Quote string
}

// NewPrice parses the price query, lowercasing addresses for the
// case-insensitive upstream lookup.
func NewPrice(r *http.Request) Price {
	q := r.URL.Query()

	base := strings.ToLower(q.Get("base"))
	if base == "" {
		base = DefaultBase
	}
	quote := strings.ToLower(q.Get("quote"))
	if quote == "" {
		quote = DefaultQuote
	}
	return Price{Base: base, Quote: quote}
}
