package requests

import (
	"net/http"
	"strconv"

	"gitlab.com/distributed_lab/logan/v3/errors"
)

const (
	defaultPage   = 1
	defaultLimit  = 50
	defaultSortBy = "createDateTime"
)

type ListOrders struct {
	Address string
	Page    int
	Limit   int
	SortBy  string
}

// NewListOrders parses the orders query: address is required, the rest
// defaults to page=1, limit=50, sortBy=createDateTime.
func NewListOrders(r *http.Request) (ListOrders, error) {
	q := r.URL.Query()

	req := ListOrders{
		Address: q.Get("address"),
		Page:    defaultPage,
		Limit:   defaultLimit,
		SortBy:  defaultSortBy,
	}
	if req.Address == "" {
		return req, errors.New("Address parameter is required")
	}

	var err error
	if s := q.Get("page"); s != "" {
		if req.Page, err = strconv.Atoi(s); err != nil || req.Page < 1 {
			return req, errors.New("page must be a positive integer")
		}
	}
	if s := q.Get("limit"); s != "" {
		if req.Limit, err = strconv.Atoi(s); err != nil || req.Limit < 1 {
			return req, errors.New("limit must be a positive integer")
		}
	}
	if s := q.Get("sortBy"); s != "" {
		req.SortBy = s
	}

	return req, nil
}
