// Package memory is a process-local implementation of every repository port.
// Data is lost on restart; for persistence use the Postgres repositories.
package memory

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

var errForeignTx = errors.New("transaction was not started by the memory store")

type memberKey struct {
	organizationID string
	userID         string
}

// state is one immutable version of the whole data set. Writers work on a clone
// and publish it; readers only ever see published versions.
type state struct {
	users         map[string]domain.User
	organizations map[string]domain.Organization
	members       map[memberKey]domain.OrganizationMember
	accounts      map[string]domain.Account
	categories    map[string]domain.Category
	vendors       map[string]domain.Vendor
	transactions  map[string]domain.Transaction
	editHistory   []domain.TransactionEditHistory
	statusHistory []domain.TransactionStatusHistory
}

func newState() *state {
	return &state{
		users:         map[string]domain.User{},
		organizations: map[string]domain.Organization{},
		members:       map[memberKey]domain.OrganizationMember{},
		accounts:      map[string]domain.Account{},
		categories:    map[string]domain.Category{},
		vendors:       map[string]domain.Vendor{},
		transactions:  map[string]domain.Transaction{},
	}
}

func (s *state) clone() *state {
	c := &state{
		users:         maps.Clone(s.users),
		organizations: maps.Clone(s.organizations),
		members:       maps.Clone(s.members),
		accounts:      maps.Clone(s.accounts),
		categories:    maps.Clone(s.categories),
		vendors:       maps.Clone(s.vendors),
		transactions:  make(map[string]domain.Transaction, len(s.transactions)),
		editHistory:   slices.Clone(s.editHistory),
		statusHistory: slices.Clone(s.statusHistory),
	}
	for id, t := range s.transactions {
		c.transactions[id] = t.Clone()
	}
	return c
}

// store serializes writers with mu. A unit of work keeps mu for its whole
// lifetime, which gives it the isolation the Postgres row locks provide.
type store struct {
	mu      sync.Mutex
	current atomic.Pointer[state]
}

func newStore() *store {
	s := &store{}
	s.current.Store(newState())
	return s
}

// memTx is the pgx.Tx handed out by Begin. Only the store understands it;
// calling pgx methods on it panics.
type memTx struct {
	pgx.Tx
	state *state
	done  bool
}

func (s *store) Begin(ctx context.Context) (pgx.Tx, error) {
	s.mu.Lock()
	return &memTx{state: s.current.Load().clone()}, nil
}

func (s *store) Commit(ctx context.Context, tx pgx.Tx) error {
	mt, ok := tx.(*memTx)
	if !ok {
		return apperrors.NewAppError(500, "failed to commit transaction", errForeignTx)
	}
	if mt.done {
		return apperrors.NewAppError(500, "failed to commit transaction", pgx.ErrTxClosed)
	}
	mt.done = true
	s.current.Store(mt.state)
	s.mu.Unlock()
	return nil
}

func (s *store) Rollback(ctx context.Context, tx pgx.Tx) error {
	mt, ok := tx.(*memTx)
	if !ok {
		return apperrors.NewAppError(500, "failed to rollback transaction", errForeignTx)
	}
	if mt.done {
		return nil
	}
	mt.done = true
	s.mu.Unlock()
	return nil
}

// read returns the state visible to tx: the unit of work's own state, or the
// latest published state when tx is nil.
func (s *store) read(tx pgx.Tx) (*state, error) {
	if tx == nil {
		return s.current.Load(), nil
	}
	mt, ok := tx.(*memTx)
	if !ok || mt.done {
		return nil, errForeignTx
	}
	return mt.state, nil
}

// write applies fn inside tx, or as its own atomic step when tx is nil.
func (s *store) write(tx pgx.Tx, fn func(*state) error) error {
	if tx != nil {
		st, err := s.read(tx)
		if err != nil {
			return err
		}
		return fn(st)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.current.Load().clone()
	if err := fn(next); err != nil {
		return err
	}
	s.current.Store(next)
	return nil
}
