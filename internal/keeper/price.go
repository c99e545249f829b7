package keeper

import (
	"context"
	"time"

	"github.com/iShinzoo/LimitOrder/internal/data"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// cached quotes stay valid for a day unless the caller forces a refetch
const priceFreshness = 24 * time.Hour

// FetchPrice returns the base/quote rate, serving it from the cache while
// the cached quote is younger than 24 hours. force always calls through.
// Successful fetches update the cache.
func (k *Keeper) FetchPrice(ctx context.Context, base, quote string, force bool) (data.Quote, error) {
	if !force {
		if q, ok := k.cache.Get(base, quote); ok {
			age := time.Since(time.UnixMilli(q.Timestamp))
			if age < priceFreshness {
				return q, nil
			}
		}
	}

	q, err := k.fetchPairPrice(ctx, base, quote)
	if err != nil {
		return data.Quote{}, errors.Wrap(err, "failed to fetch price")
	}

	k.cache.Put(base, quote, q)
	return q, nil
}
