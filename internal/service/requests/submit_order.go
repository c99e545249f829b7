package requests

import (
	"encoding/json"
	"net/http"

	"github.com/iShinzoo/LimitOrder/internal/order"
	"github.com/iShinzoo/LimitOrder/internal/orderbook"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// order fields the orderbook refuses to accept without; checked in this
// order so the response names the first missing one
var requiredDataFields = []string{
	"makerAsset", "takerAsset", "makingAmount", "takingAmount",
	"maker", "receiver", "salt", "makerTraits",
}

var topLevelFields = []string{"orderHash", "signature", "data"}

// NewSubmitOrder validates a signed-order submission. Presence is what is
// validated: a field explicitly set to its zero value passes here and is the
// upstream's problem.
func NewSubmitOrder(r *http.Request) (orderbook.SubmitBody, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return orderbook.SubmitBody{}, errors.New("request body is not valid JSON")
	}

	for _, f := range topLevelFields {
		if _, ok := raw[f]; !ok {
			return orderbook.SubmitBody{}, errors.Errorf("Missing required field: %s", f)
		}
	}

	var dataFields map[string]json.RawMessage
	if err := json.Unmarshal(raw["data"], &dataFields); err != nil {
		return orderbook.SubmitBody{}, errors.New("data must be an object")
	}
	for _, f := range requiredDataFields {
		if _, ok := dataFields[f]; !ok {
			return orderbook.SubmitBody{}, errors.Errorf("Missing required order field: %s", f)
		}
	}

	var body orderbook.SubmitBody
	if err := json.Unmarshal(raw["orderHash"], &body.OrderHash); err != nil {
		return orderbook.SubmitBody{}, errors.New("orderHash must be a string")
	}
	if err := json.Unmarshal(raw["signature"], &body.Signature); err != nil {
		return orderbook.SubmitBody{}, errors.New("signature must be a string")
	}
	var data order.Data
	if err := json.Unmarshal(raw["data"], &data); err != nil {
		return orderbook.SubmitBody{}, errors.New("data fields have invalid types")
	}
	body.Data = data

	return body, nil
}
