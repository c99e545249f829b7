package requests

import (
	"net/http"

	"gitlab.com/distributed_lab/logan/v3/errors"
)

type CancelOrder struct {
	OrderHash string
}

func NewCancelOrder(r *http.Request) (CancelOrder, error) {
	hash := r.URL.Query().Get("orderHash")
	if hash == "" {
		return CancelOrder{}, errors.New("Order hash parameter is required")
	}
	return CancelOrder{OrderHash: hash}, nil
}
