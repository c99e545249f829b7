package keeper

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iShinzoo/LimitOrder/internal/config"
	"github.com/iShinzoo/LimitOrder/internal/data"
	"github.com/iShinzoo/LimitOrder/internal/data/mem"
	"github.com/iShinzoo/LimitOrder/internal/session"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
	"gitlab.com/distributed_lab/running"
)

// Keeper drives the maker-side order workflow: building and signing orders,
// guarding allowance, tracking order state and keeping prices fresh. All
// network traffic goes through the proxy service and the RPC node; the
// upstream credential never reaches this process.
type Keeper struct {
	log     *logan.Entry
	session *session.Session
	store   data.OrderStore
	cache   data.PriceCache

	proxy *url.URL
	http  *http.Client

	chainID           int64
	verifyingContract common.Address
	requestTimeout    time.Duration

	pricePeriod    time.Duration
	ordersPeriod   time.Duration
	referenceBase  string
	referenceQuote string

	decMu    sync.Mutex
	decimals map[common.Address]uint8
}

func New(cfg config.Config) *Keeper {
	net := cfg.Network()
	kpr := cfg.Keeper()

	return &Keeper{
		log:               cfg.Log().WithField("service", "keeper"),
		session:           session.New(cfg.Log(), net.RPC, kpr.Signer, net.ChainID),
		store:             mem.NewOrderStore(),
		cache:             mem.NewPriceCache(),
		proxy:             kpr.Proxy,
		http:              &http.Client{Timeout: net.RequestTimeout},
		chainID:           net.ChainID,
		verifyingContract: net.VerifyingContract,
		requestTimeout:    net.RequestTimeout,
		pricePeriod:       kpr.PricePeriod,
		ordersPeriod:      kpr.OrdersPeriod,
		referenceBase:     kpr.ReferenceBase,
		referenceQuote:    kpr.ReferenceQuote,
	}
}

// Session exposes the wallet session for callers that need connection state.
func (k *Keeper) Session() *session.Session {
	return k.session
}

// Store exposes the order state store.
func (k *Keeper) Store() data.OrderStore {
	return k.store
}

// Run connects the session and keeps the reference pair price and the local
// order view fresh until the context is cancelled or the chain changes under
// the session.
func Run(ctx context.Context, cfg config.Config) {
	k := New(cfg)

	if err := k.session.Connect(ctx); err != nil {
		panic(errors.Wrap(err, "failed to connect wallet session"))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// chain change is handled coarsely: stop everything and let the
	// supervisor restart the process against the new state
	events := k.session.Watch(ctx, k.requestTimeout)
	go func() {
		for evt := range events {
			k.log.WithField("event", string(evt.Kind)).Error("session lost, stopping keeper")
			cancel()
		}
	}()

	k.log.Info("keeper started")
	go running.WithBackOff(ctx, k.log, "order-refresh", k.RefreshOrders,
		k.ordersPeriod, k.ordersPeriod, time.Minute)
	running.WithBackOff(ctx, k.log, "price-refresh", k.refreshReferencePrice,
		k.pricePeriod, k.pricePeriod, time.Minute)
}

// refreshReferencePrice refreshes the fixed reference pair regardless of any
// user-selected pair; it always calls through.
func (k *Keeper) refreshReferencePrice(ctx context.Context) error {
	q, err := k.FetchPrice(ctx, k.referenceBase, k.referenceQuote, true)
	if err != nil {
		return errors.Wrap(err, "failed to refresh reference price")
	}

	k.log.WithFields(logan.F{"price": q.Price, "base": k.referenceBase}).
		Debug("reference price refreshed")
	return nil
}
