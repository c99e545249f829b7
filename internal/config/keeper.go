package config

import (
	"crypto/ecdsa"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"gitlab.com/distributed_lab/figure/v3"
	"gitlab.com/distributed_lab/kit/kv"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

type Keeper struct {
	Signer         *ecdsa.PrivateKey
	Proxy          *url.URL
	PricePeriod    time.Duration
	OrdersPeriod   time.Duration
	ReferenceBase  string
	ReferenceQuote string
}

const (
	// native-asset placeholder and USDC, the reference pair of the price
	// display surface
	defaultReferenceBase  = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"
	defaultReferenceQuote = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"

	defaultPricePeriod  = 30 * time.Second
	defaultOrdersPeriod = 30 * time.Second
)

func (c *config) Keeper() Keeper {
	return c.keeperOnce.Do(func() interface{} {
		var cfg struct {
			Signer         string        `fig:"signer,required"`
			Proxy          *url.URL      `fig:"proxy,required"`
			PricePeriod    time.Duration `fig:"price_period"`
			OrdersPeriod   time.Duration `fig:"orders_period"`
			ReferenceBase  string        `fig:"reference_base"`
			ReferenceQuote string        `fig:"reference_quote"`
		}
		err := figure.Out(&cfg).
			From(kv.MustGetStringMap(c.getter, "keeper")).
			Please()
		if err != nil {
			panic(errors.Wrap(err, "failed to figure out keeper"))
		}

		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.Signer, "0x"))
		if err != nil {
			panic(errors.Wrap(err, "failed to parse signer key"))
		}

		if cfg.PricePeriod == 0 {
			cfg.PricePeriod = defaultPricePeriod
		}
		if cfg.OrdersPeriod == 0 {
			cfg.OrdersPeriod = defaultOrdersPeriod
		}
		if cfg.ReferenceBase == "" {
			cfg.ReferenceBase = defaultReferenceBase
		}
		if cfg.ReferenceQuote == "" {
			cfg.ReferenceQuote = defaultReferenceQuote
		}

		return Keeper{
			Signer:         key,
			Proxy:          cfg.Proxy,
			PricePeriod:    cfg.PricePeriod,
			OrdersPeriod:   cfg.OrdersPeriod,
			ReferenceBase:  cfg.ReferenceBase,
			ReferenceQuote: cfg.ReferenceQuote,
		}
	}).(Keeper)
}
