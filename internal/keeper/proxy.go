package keeper

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iShinzoo/LimitOrder/internal/data"
	"github.com/iShinzoo/LimitOrder/internal/order"
	"github.com/iShinzoo/LimitOrder/internal/orderbook"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// bookOrder is one entry of the proxy's orders listing.
type bookOrder struct {
	OrderHash      string     `json:"orderHash"`
	Signature      string     `json:"signature"`
	CreateDateTime int64      `json:"createDateTime"`
	Status         string     `json:"status"`
	Data           order.Data `json:"data"`
}

func (k *Keeper) postOrder(ctx context.Context, body orderbook.SubmitBody) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "failed to marshal submission payload")
	}

	u := k.proxy.String() + "/api/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(raw))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = k.doProxy(req)
	return err
}

func (k *Keeper) fetchOrders(ctx context.Context, address string, limit int) ([]bookOrder, error) {
	q := url.Values{
		"address": {address},
		"limit":   {strconv.Itoa(limit)},
	}
	u := k.proxy.String() + "/api/orders?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	raw, err := k.doProxy(req)
	if err != nil {
		return nil, err
	}

	var out []bookOrder
	if err = json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(err, "failed to decode orders listing")
	}
	return out, nil
}

func (k *Keeper) fetchPairPrice(ctx context.Context, base, quote string) (data.Quote, error) {
	q := url.Values{"base": {base}, "quote": {quote}}
	u := k.proxy.String() + "/api/price?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return data.Quote{}, errors.Wrap(err, "failed to create request")
	}

	raw, err := k.doProxy(req)
	if err != nil {
		return data.Quote{}, err
	}

	var out data.Quote
	if err = json.Unmarshal(raw, &out); err != nil {
		return data.Quote{}, errors.Wrap(err, "failed to decode price response")
	}
	return out, nil
}

// doProxy performs a request against the proxy service, surfacing the
// proxy's message on failure or an HTTP-status fallback when the body
// carries none.
func (k *Keeper) doProxy(req *http.Request) (json.RawMessage, error) {
	resp, err := k.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to perform request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &envelope) == nil && envelope.Message != "" {
			return nil, errors.New(envelope.Message)
		}
		return nil, errors.Errorf("HTTP %d", resp.StatusCode)
	}
	return raw, nil
}
