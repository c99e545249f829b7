package session

import (
	"context"
	"time"
)

// EventKind enumerates session-change notifications.
type EventKind string

const (
	// EventChainChanged is emitted when the node starts reporting a
	// different chain id; the session force-disconnects first.
	EventChainChanged EventKind = "chain_changed"
	// EventDisconnected is emitted when the session loses its account.
	EventDisconnected EventKind = "disconnected"
)

// Event is one session-state change.
type Event struct {
	Kind    EventKind
	ChainID string
}

// Watch produces a lazy stream of session-change events by polling the node.
// Cancelling ctx unsubscribes and closes the channel. On a chain change the
// session disconnects before the event is delivered, so consumers observe a
// consistent state and may re-establish the session from scratch.
func (s *Session) Watch(ctx context.Context, period time.Duration) <-chan Event {
	out := make(chan Event, 1)

	go func() {
		defer close(out)
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			client, err := s.Client()
			if err != nil {
				continue
			}
			got, err := client.ChainID(ctx)
			if err != nil {
				s.log.WithError(err).Warn("failed to poll chain id")
				continue
			}
			if got.Cmp(s.chainID) == 0 {
				continue
			}

			s.log.WithField("got_chain_id", got.String()).
				Warn("chain changed under the session, disconnecting")
			s.Disconnect()

			select {
			case out <- Event{Kind: EventChainChanged, ChainID: got.String()}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
