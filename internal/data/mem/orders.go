package mem

import (
	"sync"

	"github.com/iShinzoo/LimitOrder/internal/data"
	"github.com/iShinzoo/LimitOrder/internal/order"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

var ErrOrderNotFound = errors.New("order not found")

type orderStore struct {
	mu      sync.RWMutex
	active  map[string]order.Record
	history map[string]order.Record
	// insertion order of ids, for stable listing
	activeIDs  []string
	historyIDs []string
}

func NewOrderStore() data.OrderStore {
	return &orderStore{
		active:  make(map[string]order.Record),
		history: make(map[string]order.Record),
	}
}

func (s *orderStore) Active() []order.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.activeIDs, s.active)
}

func (s *orderStore) History() []order.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.historyIDs, s.history)
}

func (s *orderStore) Get(id string) (order.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o, ok := s.active[id]; ok {
		return o, true
	}
	o, ok := s.history[id]
	return o, ok
}

func (s *orderStore) Add(o order.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[o.ID]; !ok {
		s.activeIDs = append(s.activeIDs, o.ID)
	}
	delete(s.history, o.ID)
	s.historyIDs = remove(s.historyIDs, o.ID)
	s.active[o.ID] = o
}

func (s *orderStore) Cancel(id string) (order.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.active[id]
	if !ok {
		return order.Record{}, ErrOrderNotFound
	}
	delete(s.active, id)
	s.activeIDs = remove(s.activeIDs, id)

	o.Status = order.StatusCancelled
	s.history[id] = o
	s.historyIDs = append(s.historyIDs, id)
	return o, nil
}

func (s *orderStore) Replace(active, history []order.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = make(map[string]order.Record, len(active))
	s.activeIDs = s.activeIDs[:0]
	for _, o := range active {
		s.active[o.ID] = o
		s.activeIDs = append(s.activeIDs, o.ID)
	}

	s.history = make(map[string]order.Record, len(history))
	s.historyIDs = s.historyIDs[:0]
	for _, o := range history {
		s.history[o.ID] = o
		s.historyIDs = append(s.historyIDs, o.ID)
	}
}

func collect(ids []string, m map[string]order.Record) []order.Record {
	out := make([]order.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func remove(ids []string, id string) []string {
	for i := range ids {
		if ids[i] == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
