package data

import "github.com/iShinzoo/LimitOrder/internal/order"

// OrderStore keeps the session-local view of the maker's orders, split into
// the active set and the history. A given order id lives in exactly one of
// the two partitions at a time.
type OrderStore interface {
	Active() []order.Record
	History() []order.Record
	Get(id string) (order.Record, bool)

	// Add appends an acknowledged order to the active set.
	Add(order.Record)
	// Cancel moves an active order into history with status forced to
	// cancelled. It has no network effect.
	Cancel(id string) (order.Record, error)
	// Replace swaps both partitions wholesale with the orderbook's view.
	Replace(active, history []order.Record)
}
