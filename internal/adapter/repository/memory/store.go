// Package memory is an in-process ledger store with real unit-of-work
// semantics: a Tx works on a private copy of the data that replaces the
// committed state on Commit and is discarded on Rollback. Units of work are
// serialized, which stands in for row locks.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

var errForeignTx = errors.New("memory: transaction does not belong to this store")

type state struct {
	accounts     map[string]domain.Account
	transactions map[string]domain.Transaction
	categories   map[string]domain.Category
	outbox       map[string]domain.OutboxEvent
}

func newState() *state {
	return &state{
		accounts:     make(map[string]domain.Account),
		transactions: make(map[string]domain.Transaction),
		categories:   make(map[string]domain.Category),
		outbox:       make(map[string]domain.OutboxEvent),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:     make(map[string]domain.Account, len(s.accounts)),
		transactions: make(map[string]domain.Transaction, len(s.transactions)),
		categories:   make(map[string]domain.Category, len(s.categories)),
		outbox:       make(map[string]domain.OutboxEvent, len(s.outbox)),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.outbox {
		c.outbox[k] = v
	}
	return c
}

// Store holds the committed data.
type Store struct {
	writer chan struct{}
	mu     sync.RWMutex
	data   *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{writer: make(chan struct{}, 1), data: newState()}
}

// acquire takes the single writer slot or gives up when ctx is done.
func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.writer <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.writer
}

// view returns the state visible to tx, or the committed state when tx is nil.
// The returned release func must be called when done reading.
func (s *Store) view(tx usecase.Tx) (*state, func(), error) {
	if tx == nil {
		s.mu.RLock()
		return s.data, s.mu.RUnlock, nil
	}

	t, ok := tx.(*Tx)
	if !ok || t.store != s {
		return nil, nil, errForeignTx
	}
	if t.done {
		return nil, nil, ErrTxDone
	}

	return t.work, func() {}, nil
}

// ErrTxDone is returned when a finished Tx is used.
var ErrTxDone = errors.New("memory: transaction already committed or rolled back")

// Tx is a unit of work against a Store.
type Tx struct {
	store *Store
	work  *state
	done  bool
}

// Commit publishes the Tx's changes.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}

	t.store.mu.Lock()
	t.store.data = t.work
	t.store.mu.Unlock()

	t.finish()
	return nil
}

// Rollback discards the Tx's changes. Rolling back a finished Tx is a no-op.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}

	t.finish()
	return nil
}

func (t *Tx) finish() {
	t.done = true
	t.work = nil
	t.store.release()
}

// TxManager begins units of work on a Store.
type TxManager struct {
	store *Store
}

// NewTxManager creates a TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin waits for any running unit of work to finish and starts a new one.
// It returns ctx's error if the wait outlives ctx.
func (m *TxManager) Begin(ctx context.Context) (usecase.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := m.store.acquire(ctx); err != nil {
		return nil, err
	}

	m.store.mu.RLock()
	work := m.store.data.clone()
	m.store.mu.RUnlock()

	return &Tx{store: m.store, work: work}, nil
}
