package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	fermentation "vineyard-planner/internal/fermentation/domain"
)

// Store is an in-memory lot, log and event store for tests and offline use.
// It implements the LotRepository, LogRepository and EventRepository interfaces
// through the views returned by Lots, Logs and Events.
type Store struct {
	mu     sync.RWMutex
	lots   map[string]fermentation.Lot
	logs   map[string][]fermentation.LogEntry
	events map[string][]fermentation.Event
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		lots:   make(map[string]fermentation.Lot),
		logs:   make(map[string][]fermentation.LogEntry),
		events: make(map[string][]fermentation.Event),
	}
}

// PutLot inserts or replaces a lot.
func (s *Store) PutLot(lot fermentation.Lot) error {
	if err := lot.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lots[lot.ID] = lot
	return nil
}

// AppendLog records a log entry for a lot.
func (s *Store) AppendLog(lotID string, entry fermentation.LogEntry) error {
	if lotID == "" {
		return errors.New("memory store: empty lot id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[lotID] = append(s.logs[lotID], entry)
	return nil
}

// AppendEvent records an event for a lot.
func (s *Store) AppendEvent(lotID string, evt fermentation.Event) error {
	if lotID == "" {
		return errors.New("memory store: empty lot id")
	}
	if !evt.Type.Valid() {
		return errors.New("memory store: invalid event type")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[lotID] = append(s.events[lotID], evt)
	return nil
}

// Lots returns the lot repository view.
func (s *Store) Lots() fermentation.LotRepository { return lotView{s} }

// Logs returns the log repository view.
func (s *Store) Logs() fermentation.LogRepository { return logView{s} }

// Events returns the event repository view.
func (s *Store) Events() fermentation.EventRepository { return eventView{s} }

type lotView struct{ s *Store }

func (v lotView) Get(ctx context.Context, id string) (*fermentation.Lot, error) {
	_ = ctx
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	lot, ok := v.s.lots[id]
	if !ok {
		return nil, nil
	}
	return &lot, nil
}

func (v lotView) ListByStatus(ctx context.Context, status string) ([]fermentation.Lot, error) {
	_ = ctx
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var result []fermentation.Lot
	for _, lot := range v.s.lots {
		if lot.Status == status {
			result = append(result, lot)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type logView struct{ s *Store }

func (v logView) ListByLot(ctx context.Context, lotID string) ([]fermentation.LogEntry, error) {
	_ = ctx
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	out := make([]fermentation.LogEntry, len(v.s.logs[lotID]))
	copy(out, v.s.logs[lotID])
	fermentation.SortLogsNewestFirst(out)
	return out, nil
}

type eventView struct{ s *Store }

func (v eventView) ListByLot(ctx context.Context, lotID string) ([]fermentation.Event, error) {
	_ = ctx
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	out := make([]fermentation.Event, len(v.s.events[lotID]))
	copy(out, v.s.events[lotID])
	fermentation.SortEventsNewestFirst(out)
	return out, nil
}
