// Package accountmem keeps account data in memory for the lifetime of the
// process. Accounts are independent, so each one carries its own lock: the
// check-apply-record sequence of an operation runs inside that account's
// critical section and two operations on different accounts never contend.
package accountmem

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/lfreitas/branchbank/internal/core/account"
	"github.com/lfreitas/branchbank/internal/logger"
	"github.com/lfreitas/branchbank/internal/web"
)

type entry struct {
	mu   sync.Mutex
	acct account.Account
}

type Store struct {
	log *slog.Logger

	mu       sync.RWMutex
	accounts map[int]*entry
}

func NewStore(log *slog.Logger) *Store {
	return &Store{
		log:      log,
		accounts: make(map[int]*entry),
	}
}

// Create assigns the next sequential number and stores the account. Numbers
// start at 1 and are never reused.
func (s *Store) Create(ctx context.Context, a account.Account) (account.Account, error) {
	ctx, span := web.AddSpan(ctx, "core.account.store.accountmem.create")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	a.Number = len(s.accounts) + 1
	s.accounts[a.Number] = &entry{acct: a.Clone()}

	logger.InfocCtx(ctx, s.log, 3, "store.create", "account", a.Number, "owner", a.OwnerID)

	return a, nil
}

// Update runs fn against a working copy of the account under the account's
// lock and commits the copy only if fn succeeds. An error from fn leaves the
// stored account exactly as it was.
func (s *Store) Update(ctx context.Context, number int, fn func(a *account.Account) error) error {
	ctx, span := web.AddSpan(ctx, "core.account.store.accountmem.update")
	defer span.End()

	e, err := s.lookup(number)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cp := e.acct.Clone()
	if err := fn(&cp); err != nil {
		return err
	}
	e.acct = cp

	logger.InfocCtx(ctx, s.log, 3, "store.update", "account", number)

	return nil
}

func (s *Store) QueryByNumber(ctx context.Context, number int) (account.Account, error) {
	_, span := web.AddSpan(ctx, "core.account.store.accountmem.querybynumber")
	defer span.End()

	e, err := s.lookup(number)
	if err != nil {
		return account.Account{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.acct.Clone(), nil
}

func (s *Store) QueryAll(ctx context.Context) ([]account.Account, error) {
	_, span := web.AddSpan(ctx, "core.account.store.accountmem.queryall")
	defer span.End()

	s.mu.RLock()
	entries := make([]*entry, 0, len(s.accounts))
	for _, e := range s.accounts {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	accts := make([]account.Account, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		accts = append(accts, e.acct.Clone())
		e.mu.Unlock()
	}

	sort.Slice(accts, func(i, j int) bool { return accts[i].Number < accts[j].Number })

	return accts, nil
}

func (s *Store) lookup(number int) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.accounts[number]
	if !ok {
		return nil, account.ErrNotFound
	}
	return e, nil
}
