package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin"
	"github.com/iShinzoo/LimitOrder/internal/config"
	"github.com/iShinzoo/LimitOrder/internal/keeper"
	"github.com/iShinzoo/LimitOrder/internal/service"
	"gitlab.com/distributed_lab/kit/kv"
	"gitlab.com/distributed_lab/logan/v3"
)

func Run(args []string) bool {
	log := logan.New()

	defer func() {
		if rvr := recover(); rvr != nil {
			log.WithRecover(rvr).Error("app panicked")
		}
	}()

	cfg := config.New(kv.MustFromEnv())
	log = cfg.Log()

	app := kingpin.New("limit-order-svc", "limit order proxy service and order keeper")

	runCmd := app.Command("run", "run command")
	serviceCmd := runCmd.Command("service", "run proxy service")
	keeperCmd := runCmd.Command("keeper", "run order keeper")

	cmd, err := app.Parse(args[1:])
	if err != nil {
		log.WithError(err).Error("failed to parse arguments")
		return false
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case serviceCmd.FullCommand():
		service.Run(ctx, cfg)
	case keeperCmd.FullCommand():
		keeper.Run(ctx, cfg)
	default:
		log.Errorf("unknown command %s", cmd)
		return false
	}

	return true
}
