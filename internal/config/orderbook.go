package config

import (
	"net/url"
	"time"

	"github.com/iShinzoo/LimitOrder/internal/orderbook"
	"gitlab.com/distributed_lab/figure/v3"
	"gitlab.com/distributed_lab/kit/kv"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

type Orderbook struct {
	Client *orderbook.Client
	APIKey string
}

var defaultOrderbookEndpoint = &url.URL{Scheme: "https", Host: "api.1inch.dev"}

func (c *config) Orderbook() Orderbook {
	return c.orderbookOnce.Do(func() interface{} {
		var cfg struct {
			Endpoint *url.URL `fig:"endpoint"`
			// APIKey may legitimately be absent: routes answer with a
			// configuration error instead of the process refusing to start.
			APIKey         string        `fig:"api_key"`
			RequestTimeout time.Duration `fig:"request_timeout"`
		}
		err := figure.Out(&cfg).
			From(kv.MustGetStringMap(c.getter, "orderbook")).
			Please()
		if err != nil {
			panic(errors.Wrap(err, "failed to figure out orderbook"))
		}

		if cfg.Endpoint == nil {
			cfg.Endpoint = defaultOrderbookEndpoint
		}
		if cfg.RequestTimeout == 0 {
			cfg.RequestTimeout = defaultRequestTimeout
		}

		return Orderbook{
			Client: orderbook.NewClient(cfg.Endpoint, cfg.APIKey, c.Network().ChainID, cfg.RequestTimeout),
			APIKey: cfg.APIKey,
		}
	}).(Orderbook)
}
