package config

import (
	"gitlab.com/distributed_lab/figure/v3"
	"gitlab.com/distributed_lab/kit/kv"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

type Listener struct {
	Addr string
}

func (c *config) Listener() Listener {
	return c.listenerOnce.Do(func() interface{} {
		var cfg struct {
			Addr string `fig:"addr"`
		}
		err := figure.Out(&cfg).
			From(kv.MustGetStringMap(c.getter, "listener")).
			Please()
		if err != nil {
			panic(errors.Wrap(err, "failed to figure out listener"))
		}

		if cfg.Addr == "" {
			cfg.Addr = ":8080"
		}
		return Listener{Addr: cfg.Addr}
	}).(Listener)
}
