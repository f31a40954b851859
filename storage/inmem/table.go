// Package inmemdb keeps the sandbox platform data in memory.
package inmemdb

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate id")
)

// Record is implemented by every row type.
type Record interface {
	GetID() string
}

// Table is an insertion ordered set of rows keyed by id, safe for concurrent use.
type Table[T Record] struct {
	mutex sync.RWMutex
	rows  map[string]T
	order []string
}

func NewTable[T Record]() *Table[T] {
	return &Table[T]{rows: map[string]T{}}
}

func (tbl *Table[T]) Insert(row T) error {
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	id := row.GetID()
	if _, ok := tbl.rows[id]; ok {
		return errors.Wrapf(ErrDuplicate, "%q", id)
	}
	tbl.rows[id] = row
	tbl.order = append(tbl.order, id)
	return nil
}

func (tbl *Table[T]) Get(id string) (T, error) {
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	if row, ok := tbl.rows[id]; ok {
		return row, nil
	}
	var zero T
	return zero, ErrNotFound
}

// Update replaces the row with the same id.
func (tbl *Table[T]) Update(row T) error {
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	id := row.GetID()
	if _, ok := tbl.rows[id]; !ok {
		return ErrNotFound
	}
	tbl.rows[id] = row
	return nil
}

func (tbl *Table[T]) Delete(id string) error {
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	if _, ok := tbl.rows[id]; !ok {
		return ErrNotFound
	}
	tbl.remove(id)
	return nil
}

// DeleteWhere deletes every matching row and returns their ids.
func (tbl *Table[T]) DeleteWhere(match func(T) bool) []string {
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	var ids []string
	for _, id := range tbl.order {
		if match(tbl.rows[id]) {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		tbl.remove(id)
	}
	return ids
}

// remove must be called with the write lock held.
func (tbl *Table[T]) remove(id string) {
	delete(tbl.rows, id)
	for i, oid := range tbl.order {
		if oid == id {
			tbl.order = append(tbl.order[:i], tbl.order[i+1:]...)
			break
		}
	}
}

// All returns every row in insertion order.
func (tbl *Table[T]) All() []T {
	return tbl.Where(func(T) bool { return true })
}

func (tbl *Table[T]) Where(match func(T) bool) []T {
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	rows := make([]T, 0, len(tbl.order))
	for _, id := range tbl.order {
		if row := tbl.rows[id]; match(row) {
			rows = append(rows, row)
		}
	}
	return rows
}

func (tbl *Table[T]) Len() int {
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()
	return len(tbl.order)
}

func (tbl *Table[T]) Truncate() {
	tbl.mutex.Lock()
	tbl.rows = map[string]T{}
	tbl.order = nil
	tbl.mutex.Unlock()
}
