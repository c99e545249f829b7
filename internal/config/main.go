package config

import (
	"gitlab.com/distributed_lab/kit/comfig"
	"gitlab.com/distributed_lab/kit/kv"
)

type Config interface {
	comfig.Logger

	Network() Network
	Orderbook() Orderbook
	Listener() Listener
	Keeper() Keeper
}

type config struct {
	comfig.Logger
	getter kv.Getter

	networkOnce   comfig.Once
	orderbookOnce comfig.Once
	listenerOnce  comfig.Once
	keeperOnce    comfig.Once
}

func New(getter kv.Getter) Config {
	return &config{
		getter: getter,
		Logger: comfig.NewLogger(getter, comfig.LoggerOpts{}),
	}
}
