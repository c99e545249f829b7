package keeper

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/iShinzoo/LimitOrder/internal/data"
	"github.com/iShinzoo/LimitOrder/internal/data/mem"
	"github.com/iShinzoo/LimitOrder/internal/order"
	"github.com/iShinzoo/LimitOrder/internal/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/running"
)

const testKeyHex = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"

// proxyStub answers keeper requests the way the proxy service would and
// counts how many it served.
type proxyStub struct {
	*httptest.Server

	calls []*http.Request
	body  string
}

func newProxyStub(body string) *proxyStub {
	p := &proxyStub{body: body}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.calls = append(p.calls, r.Clone(r.Context()))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(p.body))
	}))
	return p
}

func newTestKeeper(t *testing.T, proxyURL string) *Keeper {
	key, err := crypto.HexToECDSA(testKeyHex)
	if err != nil {
		t.Fatalf("failed to parse test key: %v", err)
	}
	proxy, err := url.Parse(proxyURL)
	if err != nil {
		t.Fatalf("failed to parse proxy url: %v", err)
	}

	log := logan.New()
	return &Keeper{
		log:               log,
		session:           session.New(log, "http://localhost:8545", key, 137),
		store:             mem.NewOrderStore(),
		cache:             mem.NewPriceCache(),
		proxy:             proxy,
		http:              &http.Client{Timeout: 5 * time.Second},
		chainID:           137,
		verifyingContract: common.HexToAddress("0x111111125421cA6dc452d289314280a0f8842A65"),
		requestTimeout:    5 * time.Second,
		decimals:          make(map[common.Address]uint8),
	}
}

func TestFetchPrice_CachesForADay(t *testing.T) {
	proxy := newProxyStub(`{"price": "3500.12", "timestamp": 1700000000000}`)
	defer proxy.Close()
	k := newTestKeeper(t, proxy.URL)
	ctx := context.Background()

	q, err := k.FetchPrice(ctx, "0xaaa", "0xbbb", false)
	assert.NoError(t, err)
	assert.Equal(t, "3500.12", q.Price)
	assert.Len(t, proxy.calls, 1)

	// a fresh cache entry short-circuits the proxy
	k.cache.Put("0xaaa", "0xbbb", data.Quote{
		Price:     "3600",
		Timestamp: time.Now().UnixMilli(),
	})
	q, err = k.FetchPrice(ctx, "0xaaa", "0xbbb", false)
	assert.NoError(t, err)
	assert.Equal(t, "3600", q.Price)
	assert.Len(t, proxy.calls, 1)

	// force bypasses a fresh entry
	q, err = k.FetchPrice(ctx, "0xaaa", "0xbbb", true)
	assert.NoError(t, err)
	assert.Equal(t, "3500.12", q.Price)
	assert.Len(t, proxy.calls, 2)
}

func TestFetchPrice_StaleEntryRefetches(t *testing.T) {
	proxy := newProxyStub(`{"price": "3500.12", "timestamp": 1700000000000}`)
	defer proxy.Close()
	k := newTestKeeper(t, proxy.URL)

	stale := time.Now().Add(-25 * time.Hour).UnixMilli()
	k.cache.Put("0xaaa", "0xbbb", data.Quote{Price: "3000", Timestamp: stale})

	q, err := k.FetchPrice(context.Background(), "0xaaa", "0xbbb", false)
	assert.NoError(t, err)
	assert.Equal(t, "3500.12", q.Price)
	assert.Len(t, proxy.calls, 1)

	// the refetched quote replaced the stale one
	cached, ok := k.cache.Get("0xaaa", "0xbbb")
	assert.True(t, ok)
	assert.Equal(t, "3500.12", cached.Price)
}

func TestFetchPrice_SurfacesProxyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Invalid API key"}`))
	}))
	defer srv.Close()
	k := newTestKeeper(t, srv.URL)

	_, err := k.FetchPrice(context.Background(), "0xaaa", "0xbbb", true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")

	// a failed fetch must not poison the cache
	_, ok := k.cache.Get("0xaaa", "0xbbb")
	assert.False(t, ok)
}

func TestRefreshOrders(t *testing.T) {
	traits := order.NewMakerTraits().WithExpiration(1767225600).String()
	proxy := newProxyStub(`[
		{
			"orderHash": "0x01", "signature": "0xs1", "status": "active",
			"createDateTime": 1700000000000,
			"data": {
				"makerAsset": "0x1111111111111111111111111111111111111111",
				"takerAsset": "0x2222222222222222222222222222222222222222",
				"makingAmount": "100", "takingAmount": "200",
				"maker": "0x3333333333333333333333333333333333333333",
				"receiver": "0x3333333333333333333333333333333333333333",
				"salt": "11", "makerTraits": "` + traits + `"
			}
		},
		{
			"orderHash": "0x02", "signature": "0xs2", "status": "filled",
			"createDateTime": 1700000001000,
			"data": {"salt": "22", "makerTraits": "0"}
		},
		{
			"orderHash": "0x03", "signature": "0xs3", "status": "somethingelse",
			"createDateTime": 1700000002000,
			"data": {"salt": "33", "makerTraits": "0"}
		}
	]`)
	defer proxy.Close()
	k := newTestKeeper(t, proxy.URL)

	// a stale local order not present upstream must vanish
	k.store.Add(order.Record{ID: "stale-1", Status: order.StatusActive})

	err := k.RefreshOrders(context.Background())
	assert.NoError(t, err)

	if assert.Len(t, proxy.calls, 1) {
		q := proxy.calls[0].URL.Query()
		assert.Equal(t, k.session.Address().Hex(), q.Get("address"))
		assert.Equal(t, "100", q.Get("limit"))
	}

	active := k.store.Active()
	if assert.Len(t, active, 2) {
		// unknown statuses classify as active
		assert.Equal(t, "0x01", active[0].OrderHash)
		assert.Equal(t, "0x03", active[1].OrderHash)
		assert.Equal(t, int64(1767225600), active[0].Expiration)
		assert.Equal(t, order.LocalID("11", 1700000000000), active[0].ID)
	}

	history := k.store.History()
	if assert.Len(t, history, 1) {
		assert.Equal(t, "0x02", history[0].OrderHash)
		assert.Equal(t, order.StatusFilled, history[0].Status)
	}

	_, ok := k.store.Get("stale-1")
	assert.False(t, ok)
}

func TestCancelOrder_IsLocalOnly(t *testing.T) {
	proxy := newProxyStub(`{}`)
	defer proxy.Close()
	k := newTestKeeper(t, proxy.URL)

	k.store.Add(order.Record{ID: "a-1", Status: order.StatusActive})

	rec, err := k.CancelOrder("a-1")
	assert.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, rec.Status)
	assert.Empty(t, proxy.calls)

	_, err = k.CancelOrder("missing")
	assert.Error(t, err)
}

func TestCreateOrder_RequiresConnection(t *testing.T) {
	proxy := newProxyStub(`{}`)
	defer proxy.Close()
	k := newTestKeeper(t, proxy.URL)

	_, err := k.CreateOrder(context.Background(), CreateParams{
		PayToken:     common.HexToAddress("0x1"),
		ReceiveToken: common.HexToAddress("0x2"),
		Amount:       decimal.NewFromInt(1),
		Price:        decimal.NewFromInt(2000),
		Expiration:   order.Expires1D,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "wallet not connected")
	assert.Empty(t, proxy.calls)
}

// connectKeeper binds the keeper to a stub node that only answers
// eth_chainId, enough for Connect to succeed. Returns the node's Close.
func connectKeeper(t *testing.T, k *Keeper) func() {
	node := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode RPC request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":"0x89"}`, req.ID)
	}))

	key, err := crypto.HexToECDSA(testKeyHex)
	if err != nil {
		t.Fatalf("failed to parse test key: %v", err)
	}
	k.session = session.New(logan.New(), node.URL, key, 137)
	if err := k.session.Connect(context.Background()); err != nil {
		node.Close()
		t.Fatalf("failed to connect session: %v", err)
	}
	return node.Close
}

// erc20Node fakes the node surface of the allowance guard: it answers
// allowance calls from a fixed value and collects approval transactions.
type erc20Node struct {
	allowance     *big.Int
	receiptStatus uint64
	sent          []*types.Transaction
}

func (n *erc20Node) CodeAt(_ context.Context, _ common.Address, _ *big.Int) ([]byte, error) {
	return []byte{1}, nil
}

func (n *erc20Node) PendingCodeAt(_ context.Context, _ common.Address) ([]byte, error) {
	return []byte{1}, nil
}

func (n *erc20Node) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if len(call.Data) >= 4 && common.Bytes2Hex(call.Data[:4]) == "dd62ed3e" {
		return common.LeftPadBytes(n.allowance.Bytes(), 32), nil
	}
	return nil, fmt.Errorf("unexpected contract call %x", call.Data)
}

func (n *erc20Node) HeaderByNumber(_ context.Context, _ *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: big.NewInt(1)}, nil
}

func (n *erc20Node) PendingNonceAt(_ context.Context, _ common.Address) (uint64, error) {
	return 0, nil
}

func (n *erc20Node) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (n *erc20Node) SuggestGasTipCap(_ context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (n *erc20Node) EstimateGas(_ context.Context, _ ethereum.CallMsg) (uint64, error) {
	return 60000, nil
}

func (n *erc20Node) SendTransaction(_ context.Context, tx *types.Transaction) error {
	n.sent = append(n.sent, tx)
	return nil
}

func (n *erc20Node) FilterLogs(_ context.Context, _ ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (n *erc20Node) SubscribeFilterLogs(_ context.Context, _ ethereum.FilterQuery, _ chan<- types.Log) (ethereum.Subscription, error) {
	return nil, fmt.Errorf("not supported")
}

func (n *erc20Node) TransactionReceipt(_ context.Context, _ common.Hash) (*types.Receipt, error) {
	return &types.Receipt{Status: n.receiptStatus}, nil
}

func TestEnsureAllowance_SufficientIsNoop(t *testing.T) {
	k := newTestKeeper(t, "http://localhost:1")
	token := common.HexToAddress("0x4444444444444444444444444444444444444444")
	node := &erc20Node{allowance: big.NewInt(100)}

	// a covering allowance needs no signing, so the session stays offline
	err := k.ensureAllowanceOn(context.Background(), node, token, big.NewInt(100))
	assert.NoError(t, err)
	assert.Empty(t, node.sent)
}

func TestEnsureAllowance_ShortApprovesExactAmount(t *testing.T) {
	k := newTestKeeper(t, "http://localhost:1")
	defer connectKeeper(t, k)()

	token := common.HexToAddress("0x4444444444444444444444444444444444444444")
	node := &erc20Node{allowance: big.NewInt(50), receiptStatus: types.ReceiptStatusSuccessful}

	required := big.NewInt(100)
	err := k.ensureAllowanceOn(context.Background(), node, token, required)
	assert.NoError(t, err)

	if assert.Len(t, node.sent, 1) {
		tx := node.sent[0]
		assert.Equal(t, token, *tx.To())

		data := tx.Data()
		if assert.Len(t, data, 68) {
			assert.Equal(t, "095ea7b3", common.Bytes2Hex(data[:4]))
			assert.Equal(t, k.verifyingContract, common.BytesToAddress(data[4:36]))
			// exactly what the order needs, not unlimited
			assert.Zero(t, required.Cmp(new(big.Int).SetBytes(data[36:68])))
		}
	}
}

func TestEnsureAllowance_RevertedApprovalFails(t *testing.T) {
	k := newTestKeeper(t, "http://localhost:1")
	defer connectKeeper(t, k)()

	token := common.HexToAddress("0x4444444444444444444444444444444444444444")
	node := &erc20Node{allowance: big.NewInt(0), receiptStatus: types.ReceiptStatusFailed}

	err := k.ensureAllowanceOn(context.Background(), node, token, big.NewInt(100))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), ErrApprovalFailed.Error())
	assert.Len(t, node.sent, 1)
}

func TestEnsureAllowance_RequiresConnection(t *testing.T) {
	k := newTestKeeper(t, "http://localhost:1")

	err := k.ensureAllowance(context.Background(),
		common.HexToAddress("0x4444444444444444444444444444444444444444"), big.NewInt(1))
	assert.Equal(t, session.ErrNotConnected, err)
}

func TestRefreshOrders_PeriodicLoop(t *testing.T) {
	proxy := newProxyStub(`[]`)
	defer proxy.Close()
	k := newTestKeeper(t, proxy.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	running.WithBackOff(ctx, k.log, "order-refresh", k.RefreshOrders,
		10*time.Millisecond, 10*time.Millisecond, time.Minute)

	assert.GreaterOrEqual(t, len(proxy.calls), 2)
}

func TestFetchPrice_StatusFallbackError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()
	k := newTestKeeper(t, srv.URL)

	_, err := k.FetchPrice(context.Background(), "0xaaa", "0xbbb", true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}
