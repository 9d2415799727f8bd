// Package clientmem keeps the client directory in memory for the lifetime of
// the process.
package clientmem

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/lfreitas/branchbank/internal/core/client"
	"github.com/lfreitas/branchbank/internal/logger"
	"github.com/lfreitas/branchbank/internal/web"
)

type Store struct {
	log *slog.Logger

	mu      sync.RWMutex
	clients map[string]client.Client
}

func NewStore(log *slog.Logger) *Store {
	return &Store{
		log:     log,
		clients: make(map[string]client.Client),
	}
}

func (s *Store) Create(ctx context.Context, c client.Client) error {
	ctx, span := web.AddSpan(ctx, "core.client.store.clientmem.create")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[c.ID]; ok {
		return client.ErrDuplicate
	}
	s.clients[c.ID] = clone(c)

	logger.InfocCtx(ctx, s.log, 3, "store.create", "client", c.ID)

	return nil
}

func (s *Store) QueryByID(ctx context.Context, id string) (client.Client, error) {
	_, span := web.AddSpan(ctx, "core.client.store.clientmem.querybyid")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	if !ok {
		return client.Client{}, client.ErrNotFound
	}

	return clone(c), nil
}

func (s *Store) AddAccount(ctx context.Context, id string, number int) error {
	ctx, span := web.AddSpan(ctx, "core.client.store.clientmem.addaccount")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok {
		return client.ErrNotFound
	}

	c.Accounts = append(slices.Clone(c.Accounts), number)
	s.clients[id] = c

	logger.InfocCtx(ctx, s.log, 3, "store.addaccount", "client", id, "account", number)

	return nil
}

func clone(c client.Client) client.Client {
	c.Accounts = slices.Clone(c.Accounts)
	return c
}
