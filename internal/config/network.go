package config

import (
	"math"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gitlab.com/distributed_lab/figure/v3"
	"gitlab.com/distributed_lab/kit/kv"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

type Network struct {
	RPC               string
	ChainID           int64
	VerifyingContract common.Address
	RequestTimeout    time.Duration
}

const defaultRequestTimeout = 10 * time.Second
const maxChainID int64 = math.MaxUint64/2 - 36

func (c *config) Network() Network {
	return c.networkOnce.Do(func() interface{} {
		var cfg struct {
			RPC               string         `fig:"rpc,required"`
			ChainID           int64          `fig:"chain_id,required"`
			VerifyingContract common.Address `fig:"verifying_contract,required"`
			RequestTimeout    time.Duration  `fig:"request_timeout"`
		}

		err := figure.Out(&cfg).
			With(figure.EthereumHooks).
			From(kv.MustGetStringMap(c.getter, "net")).
			Please()
		if err != nil {
			panic(errors.Wrap(err, "failed to figure out net"))
		}

		if cfg.ChainID > maxChainID || cfg.ChainID <= 0 {
			panic("chain_id value out of range due to EIP 2294")
		}

		if cfg.RequestTimeout == 0 {
			cfg.RequestTimeout = defaultRequestTimeout
		}

		return Network{
			RPC:               cfg.RPC,
			ChainID:           cfg.ChainID,
			VerifyingContract: cfg.VerifyingContract,
			RequestTimeout:    cfg.RequestTimeout,
		}
	}).(Network)
}
