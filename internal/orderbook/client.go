package orderbook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iShinzoo/LimitOrder/internal/order"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// SubmitBody is the payload forwarded to the orderbook order endpoint.
type SubmitBody struct {
	OrderHash string     `json:"orderHash"`
	Signature string     `json:"signature"`
	Data      order.Data `json:"data"`
}

// Error is a non-2xx answer from the upstream API. Body keeps the raw
// response text when it is not JSON.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("orderbook API responded with %d: %s", e.StatusCode, e.Body)
}

// Client talks to the 1inch Orderbook and Price APIs with a bearer
// credential. Every call is a single attempt; retrying is the caller's
// decision.
type Client struct {
	http     *http.Client
	endpoint *url.URL
	apiKey   string
	chainID  int64
}

func NewClient(endpoint *url.URL, apiKey string, chainID int64, timeout time.Duration) *Client {
	return &Client{
		http:     &http.Client{Timeout: timeout},
		endpoint: endpoint,
		apiKey:   apiKey,
		chainID:  chainID,
	}
}

// HasKey reports whether a bearer credential is configured. Routes must
// short-circuit when it is absent.
func (c *Client) HasKey() bool {
	return c.apiKey != ""
}

// KeyLen returns the credential length for diagnostics.
func (c *Client) KeyLen() int {
	return len(c.apiKey)
}

// KeyPrefix returns the first few characters of the credential for
// diagnostics, never the full value.
func (c *Client) KeyPrefix() string {
	if len(c.apiKey) < 8 {
		return c.apiKey
	}
	return c.apiKey[:8] + "..."
}

// SubmitOrder posts a signed order to the orderbook for the configured chain
// and returns the upstream JSON verbatim.
func (c *Client) SubmitOrder(ctx context.Context, body SubmitBody) (json.RawMessage, error) {
	path := fmt.Sprintf("/orderbook/v4.0/%d/limit-order/order", c.chainID)
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal order payload")
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(raw))
}

// OrdersByMaker lists orders created by the given maker address.
func (c *Client) OrdersByMaker(ctx context.Context, address string, page, limit int, sortBy string) (json.RawMessage, error) {
	path := fmt.Sprintf("/orderbook/v4.0/%d/limit-order/order/maker/%s", c.chainID, address)
	q := url.Values{
		"page":   {strconv.Itoa(page)},
		"limit":  {strconv.Itoa(limit)},
		"sortBy": {sortBy},
	}
	return c.do(ctx, http.MethodGet, path+"?"+q.Encode(), nil)
}

// SpotPrices returns quote-currency prices keyed by token address for the
// requested tokens.
func (c *Client) SpotPrices(ctx context.Context, tokens ...string) (map[string]string, error) {
	path := fmt.Sprintf("/price/v1.1/%d/%s", c.chainID, strings.Join(tokens, ","))
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]string)
	if err = json.Unmarshal(raw, &prices); err != nil {
		return nil, errors.Wrap(err, "failed to decode prices response")
	}
	return prices, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (json.RawMessage, error) {
	u := c.endpoint.String() + path
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to perform request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}
