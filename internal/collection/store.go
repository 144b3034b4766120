// Package collection implements an ordered in-memory record collection with
// an optional persistence mirror.
//
// Every mutation is computed against a copy of the current snapshot, offered
// to the Persister, and only committed once the Persister accepts it. A failed
// write therefore leaves the collection exactly as it was.
package collection

import (
	"context"
	"sync"

	"daylog/internal/errors"
)

// Record is anything with a stable string identifier.
type Record interface {
	RecordID() string
}

// Op names a collection mutation.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpList   Op = "list"
)

// Change describes a pending mutation. Snapshot is the full ordered collection
// as it will be after the change commits.
type Change[T Record] struct {
	Op       Op
	ID       string
	Record   T
	Snapshot []T
}

// Persister mirrors changes to durable storage before they are committed.
type Persister[T Record] interface {
	Persist(ctx context.Context, change Change[T]) error
}

// PersisterFunc adapts a function to the Persister interface.
type PersisterFunc[T Record] func(ctx context.Context, change Change[T]) error

// Persist implements Persister.
func (f PersisterFunc[T]) Persist(ctx context.Context, change Change[T]) error {
	return f(ctx, change)
}

// Observer is told about every operation and its outcome.
type Observer func(name string, op Op, err error)

// Option configures a Store.
type Option[T Record] func(*Store[T])

// WithPersister mirrors every mutation through p.
func WithPersister[T Record](p Persister[T]) Option[T] {
	return func(s *Store[T]) { s.persister = p }
}

// WithObserver reports operations to fn.
func WithObserver[T Record](fn Observer) Option[T] {
	return func(s *Store[T]) { s.observer = fn }
}

// Store is an ordered collection of records, unique by ID.
type Store[T Record] struct {
	mu        sync.RWMutex
	name      string
	records   []T
	index     map[string]int
	retired   map[string]struct{}
	persister Persister[T]
	observer  Observer
}

// New creates an empty store. name is used in error messages and metrics.
func New[T Record](name string, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		name:    name,
		index:   make(map[string]int),
		retired: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the collection name.
func (s *Store[T]) Name() string {
	return s.name
}

// Replace loads records as the current contents without persisting them.
// Duplicate identifiers keep their first occurrence.
func (s *Store[T]) Replace(records []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]T, 0, len(records))
	s.index = make(map[string]int, len(records))
	for _, r := range records {
		id := r.RecordID()
		if _, dup := s.index[id]; dup || id == "" {
			continue
		}
		s.index[id] = len(s.records)
		s.records = append(s.records, r)
	}
}

// Create appends record. The identifier must be non-empty and never used
// before in this store, including by records that have since been deleted.
func (s *Store[T]) Create(ctx context.Context, record T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	id := record.RecordID()
	if id == "" {
		return zero, s.observe(OpCreate, errors.NewInvalidInputError("id", id, "must not be empty"))
	}
	if _, exists := s.index[id]; exists {
		return zero, s.observe(OpCreate, errors.NewConflictError(s.name, id))
	}
	if _, used := s.retired[id]; used {
		return zero, s.observe(OpCreate, errors.NewConflictError(s.name, id))
	}

	next := make([]T, len(s.records), len(s.records)+1)
	copy(next, s.records)
	next = append(next, record)

	if err := s.persist(ctx, Change[T]{Op: OpCreate, ID: id, Record: record, Snapshot: next}); err != nil {
		return zero, s.observe(OpCreate, err)
	}

	s.records = next
	s.index[id] = len(next) - 1
	return record, s.observe(OpCreate, nil)
}

// Update applies mutate to a copy of the record with the given id. The
// identifier cannot be changed by mutate.
func (s *Store[T]) Update(ctx context.Context, id string, mutate func(T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	pos, ok := s.index[id]
	if !ok {
		return zero, s.observe(OpUpdate, errors.NewNotFoundError(s.name, id))
	}

	updated, err := mutate(s.records[pos])
	if err != nil {
		return zero, s.observe(OpUpdate, err)
	}
	if updated.RecordID() != id {
		return zero, s.observe(OpUpdate, errors.NewInvalidInputError("id", updated.RecordID(), "cannot be changed"))
	}

	next := make([]T, len(s.records))
	copy(next, s.records)
	next[pos] = updated

	if err := s.persist(ctx, Change[T]{Op: OpUpdate, ID: id, Record: updated, Snapshot: next}); err != nil {
		return zero, s.observe(OpUpdate, err)
	}

	s.records = next
	return updated, s.observe(OpUpdate, nil)
}

// Delete removes the record with the given id.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return s.observe(OpDelete, errors.NewNotFoundError(s.name, id))
	}

	removed := s.records[pos]
	next := make([]T, 0, len(s.records)-1)
	next = append(next, s.records[:pos]...)
	next = append(next, s.records[pos+1:]...)

	if err := s.persist(ctx, Change[T]{Op: OpDelete, ID: id, Record: removed, Snapshot: next}); err != nil {
		return s.observe(OpDelete, err)
	}

	s.records = next
	s.retired[id] = struct{}{}
	s.reindex()
	return s.observe(OpDelete, nil)
}

// Get returns the record with the given id.
func (s *Store[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		var zero T
		return zero, errors.NewNotFoundError(s.name, id)
	}
	return s.records[pos], nil
}

// List returns a copy of the records in order, keeping only those accepted by
// filter when one is given.
func (s *Store[T]) List(filter func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.records))
	for _, r := range s.records {
		if filter == nil || filter(r) {
			out = append(out, r)
		}
	}
	s.observe(OpList, nil)
	return out
}

// Len returns the number of records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store[T]) persist(ctx context.Context, change Change[T]) error {
	if s.persister == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.NewTimeoutError(string(change.Op)+" "+s.name, err.Error())
	}
	return s.persister.Persist(ctx, change)
}

func (s *Store[T]) reindex() {
	s.index = make(map[string]int, len(s.records))
	for i, r := range s.records {
		s.index[r.RecordID()] = i
	}
}

func (s *Store[T]) observe(op Op, err error) error {
	if s.observer != nil {
		s.observer(s.name, op, err)
	}
	return err
}
