// Package client implements the client directory and the client-facing
// operations: registering clients, opening accounts for them and performing
// transactions against accounts they hold.
package client

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/lfreitas/branchbank/internal/core/account"
)

// Set of errors for client API.
var (
	ErrNotFound        = errors.New("client not found")
	ErrInvalidArgument = errors.New("client invalid argument")
	ErrDuplicate       = errors.New("client already registered")
	ErrAccountNotHeld  = errors.New("account not held by client")
)

// Store is used to keep client's data.
type Store interface {
	// Create stores the client. It returns ErrDuplicate if a client with
	// the same ID is already registered.
	Create(ctx context.Context, c Client) error

	QueryByID(ctx context.Context, id string) (Client, error)

	// AddAccount records that the client holds the given account number.
	AddAccount(ctx context.Context, id string, number int) error
}

// Core deals with client's business logic.
type Core struct {
	store    Store
	accounts *account.Core
}

func NewCore(store Store, accounts *account.Core) *Core {
	return &Core{store: store, accounts: accounts}
}

// Create registers a new client. Registration fails with ErrDuplicate if the
// ID is already taken.
func (c *Core) Create(ctx context.Context, nc NewClient) (Client, error) {
	if err := nc.validate(); err != nil {
		return Client{}, err
	}

	cl := Client{
		ID:        nc.ID,
		Name:      nc.Name,
		BirthDate: nc.BirthDate,
		Address:   nc.Address,
	}

	if err := c.store.Create(ctx, cl); err != nil {
		return Client{}, fmt.Errorf("failed to create client: %w", err)
	}

	return cl, nil
}

// QueryByID returns the client registered under id.
func (c *Core) QueryByID(ctx context.Context, id string) (Client, error) {
	return c.store.QueryByID(ctx, id)
}

// OpenAccount opens a checking account for an existing client and records
// the client as its holder.
func (c *Core) OpenAccount(ctx context.Context, id string) (account.Account, error) {
	cl, err := c.store.QueryByID(ctx, id)
	if err != nil {
		return account.Account{}, err
	}

	a, err := c.accounts.Open(ctx, cl.ID)
	if err != nil {
		return account.Account{}, err
	}

	if err := c.store.AddAccount(ctx, cl.ID, a.Number); err != nil {
		return account.Account{}, fmt.Errorf("failed to attach account to client: %w", err)
	}

	return a, nil
}

// PerformTransaction applies nt to one of the client's accounts. A
// transaction against an account the client does not hold fails with
// ErrAccountNotHeld and mutates nothing.
func (c *Core) PerformTransaction(ctx context.Context, id string, number int, nt account.NewTransaction) (account.Account, error) {
	if err := c.checkHeld(ctx, id, number); err != nil {
		return account.Account{}, err
	}

	return c.accounts.AddTransaction(ctx, number, nt)
}

// Statement projects the statement of one of the client's accounts, with the
// same ownership check as PerformTransaction.
func (c *Core) Statement(ctx context.Context, id string, number int) (account.Statement, error) {
	if err := c.checkHeld(ctx, id, number); err != nil {
		return account.Statement{}, err
	}

	return c.accounts.Statement(ctx, number)
}

func (c *Core) checkHeld(ctx context.Context, id string, number int) error {
	cl, err := c.store.QueryByID(ctx, id)
	if err != nil {
		return err
	}

	if !slices.Contains(cl.Accounts, number) {
		return ErrAccountNotHeld
	}

	return nil
}

func (nc NewClient) validate() error {
	switch {
	case nc.ID == "":
		return fmt.Errorf("missing id: %w", ErrInvalidArgument)
	case nc.Name == "":
		return fmt.Errorf("missing name: %w", ErrInvalidArgument)
	}

	return nil
}
