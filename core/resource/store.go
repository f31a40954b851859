// Package resource provides the CRUD store every entity of the admin console is kept in.
//
// A Store holds the last fetched list of a remote collection, the number of requests
// in flight, the message of the last failure and the item currently selected for edition.
// Actions call the entity Backend and mutate the held list from the server response only.
package resource

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/hackadmin/core"
)

// ErrUnsupported is returned by Store.Update when the backend has no update endpoint.
var ErrUnsupported = core.ErrUnsupported

type (
	// Item is implemented by every entity kept in a Store.
	Item interface {
		GetID() string
	}

	// Backend is the service module of an entity.
	// parentID is empty for top-level collections.
	Backend[T Item, P any] interface {
		List(ctx context.Context, parentID string) ([]T, error)
		Create(ctx context.Context, parentID string, payload P) (T, error)
		Delete(ctx context.Context, id string) error
	}

	// Updater is implemented by backends that can edit an existing item.
	Updater[T Item, P any] interface {
		Update(ctx context.Context, id string, payload P) (T, error)
	}

	// State is a point in time copy of a Store.
	State[T Item] struct {
		Items    []T
		Loading  bool
		InFlight int
		Err      string
		Current  *T
	}

	Store[T Item, P any] struct {
		name    string
		backend Backend[T, P]
		logger  core.Logger

		mu       sync.RWMutex
		items    []T
		inFlight int
		err      string
		current  *T
	}
)

// NewStore returns an empty store. name is only used in logs.
func NewStore[T Item, P any](name string, backend Backend[T, P], logger core.Logger) *Store[T, P] {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Store[T, P]{
		name:    name,
		backend: backend,
		logger:  logger,
		items:   []T{},
	}
}

func (s *Store[T, P]) Name() string { return s.name }

// CanUpdate reports whether the backend exposes an update endpoint.
func (s *Store[T, P]) CanUpdate() bool {
	_, ok := s.backend.(Updater[T, P])
	return ok
}

// begin clears the error and registers a request in flight.
func (s *Store[T, P]) begin() {
	s.mu.Lock()
	s.err = ""
	s.inFlight++
	s.mu.Unlock()
}

// end must be called with s.mu held.
func (s *Store[T, P]) end(err error) {
	s.inFlight--
	if err != nil {
		s.err = core.Message(err)
	}
}

// fail records err, unless ctx is done: the result of a canceled call is discarded
// and only the in-flight count changes.
func (s *Store[T, P]) fail(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
		s.logger.Debug(s.name + ": " + op + " discarded: " + ctxErr.Error())
		return ctxErr
	}
	s.mu.Lock()
	s.end(err)
	s.mu.Unlock()
	s.logger.Error(s.name+": "+op+" failed", err)
	return err
}

// Create creates an item through the backend and appends the server object at the end of the list.
func (s *Store[T, P]) Create(ctx context.Context, parentID string, payload P) (T, error) {
	s.begin()
	item, err := s.backend.Create(ctx, parentID, payload)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		var zero T
		return zero, s.fail(ctx, "create", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.end(nil)
	s.items = append(s.items, item)
	return item, nil
}

// List replaces the held items with the server list.
// Concurrent calls are not de-duplicated: the last one to resolve wins.
func (s *Store[T, P]) List(ctx context.Context, parentID string) ([]T, error) {
	s.begin()
	items, err := s.backend.List(ctx, parentID)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, s.fail(ctx, "list", err)
	}
	if items == nil {
		items = []T{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.end(nil)
	s.items = items
	return copyItems(items), nil
}

// Update edits an item through the backend and replaces the held item with the server object.
func (s *Store[T, P]) Update(ctx context.Context, id string, payload P) (T, error) {
	var zero T
	updater, ok := s.backend.(Updater[T, P])
	if !ok {
		return zero, errors.Wrapf(ErrUnsupported, "%s: update", s.name)
	}

	s.begin()
	item, err := updater.Update(ctx, id, payload)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return zero, s.fail(ctx, "update", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.end(nil)
	for i := range s.items {
		if s.items[i].GetID() == id {
			s.items[i] = item
			break
		}
	}
	if s.current != nil && (*s.current).GetID() == id {
		s.current = &item
	}
	return item, nil
}

// Delete deletes an item through the backend and removes it from the held list.
func (s *Store[T, P]) Delete(ctx context.Context, id string) error {
	s.begin()
	err := s.backend.Delete(ctx, id)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return s.fail(ctx, "delete", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.end(nil)
	kept := make([]T, 0, len(s.items))
	for _, it := range s.items {
		if it.GetID() != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
	if s.current != nil && (*s.current).GetID() == id {
		s.current = nil
	}
	return nil
}

func (s *Store[T, P]) SetCurrentItem(item T) {
	s.mu.Lock()
	s.current = &item
	s.mu.Unlock()
}

func (s *Store[T, P]) ClearCurrentItem() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

func (s *Store[T, P]) CurrentItem() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		var zero T
		return zero, false
	}
	return *s.current, true
}

func (s *Store[T, P]) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

// Err returns the message of the last failure, or the empty string.
func (s *Store[T, P]) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store[T, P]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight > 0
}

// Reset returns the store to its initial empty state.
// Requests still in flight keep counting until they resolve.
func (s *Store[T, P]) Reset() {
	s.mu.Lock()
	s.items = []T{}
	s.err = ""
	s.current = nil
	s.mu.Unlock()
}

// Items returns a copy of the held items.
func (s *Store[T, P]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyItems(s.items)
}

func (s *Store[T, P]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get looks an item up by id.
func (s *Store[T, P]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.GetID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Index returns the held items keyed by id. With duplicated ids, the last one wins.
func (s *Store[T, P]) Index() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := make(map[string]T, len(s.items))
	for _, it := range s.items {
		idx[it.GetID()] = it
	}
	return idx
}

func (s *Store[T, P]) Snapshot() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State[T]{
		Items:    copyItems(s.items),
		Loading:  s.inFlight > 0,
		InFlight: s.inFlight,
		Err:      s.err,
	}
	if s.current != nil {
		cur := *s.current
		st.Current = &cur
	}
	return st
}

func copyItems[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
