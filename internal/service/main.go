package service

import (
	"context"
	"net/http"
	"time"

	"github.com/iShinzoo/LimitOrder/internal/config"
	"github.com/iShinzoo/LimitOrder/internal/orderbook"
	"gitlab.com/distributed_lab/logan/v3"
)

type service struct {
	log  *logan.Entry
	book *orderbook.Client
}

// Run serves the proxy routes until ctx is cancelled, then shuts the server
// down gracefully.
func Run(ctx context.Context, cfg config.Config) {
	s := &service{
		log:  cfg.Log().WithField("service", "proxy"),
		book: cfg.Orderbook().Client,
	}

	srv := &http.Server{
		Addr:    cfg.Listener().Addr,
		Handler: s.router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.WithError(err).Error("server shutdown error")
		}
	}()

	s.log.WithField("addr", srv.Addr).Info("proxy service started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		panic(err)
	}
}
