package data

// Quote is one cached exchange rate. Price is a decimal string, Timestamp is
// the fetch time in milliseconds.
type Quote struct {
	Price     string `json:"price"`
	Timestamp int64  `json:"timestamp"`
}

// PriceCache stores quotes keyed by base/quote pair. Freshness policy is the
// caller's concern; the cache only remembers what it was given.
type PriceCache interface {
	Get(base, quote string) (Quote, bool)
	Put(base, quote string, q Quote)
}
