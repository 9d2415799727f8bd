// Package account implements the account transaction engine: the rules that
// validate, apply and record monetary operations, and the statement
// projection derived from the recorded history.
package account

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lfreitas/branchbank/internal/web"
	"github.com/shopspring/decimal"
)

// Set of errors for account API.
var (
	ErrNotFound                = errors.New("account not found")
	ErrInvalidKind             = errors.New("invalid transaction kind")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrLimitExceeded           = errors.New("withdrawal amount exceeds the limit")
	ErrWithdrawalQuotaExceeded = errors.New("maximum number of withdrawals exceeded")
)

// Store is used to keep account's data.
type Store interface {
	// Update executes fn against the stored account under the account's
	// lock. If fn returns an error the stored account is left untouched
	// and the error is returned.
	Update(ctx context.Context, number int, fn func(a *Account) error) error

	// Create assigns the next account number and stores the account.
	Create(ctx context.Context, a Account) (Account, error)

	QueryByNumber(ctx context.Context, number int) (Account, error)
	QueryAll(ctx context.Context) ([]Account, error)
}

// Core deals with account's business logic.
type Core struct {
	store Store
}

func NewCore(store Store) *Core {
	return &Core{store: store}
}

// Open creates a checking account for ownerID with a zero balance, an empty
// history and the default checking policy. Account numbers are sequential
// and never reused.
func (c *Core) Open(ctx context.Context, ownerID string) (Account, error) {
	a := Account{
		Branch:  Branch,
		OwnerID: ownerID,
		Balance: decimal.Zero,
		Policy:  DefaultCheckingPolicy(),
	}

	a, err := c.store.Create(ctx, a)
	if err != nil {
		return Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return a, nil
}

// AddTransaction applies nt to the account and, only on success, appends the
// record to the account's history. The check-apply-record sequence runs as a
// single atomic unit: a failed operation leaves balance and history exactly
// as they were.
func (c *Core) AddTransaction(ctx context.Context, number int, nt NewTransaction) (Account, error) {
	if nt.Kind != Deposit && nt.Kind != Withdrawal {
		return Account{}, ErrInvalidKind
	}

	r := Record{
		ID:     uuid.New(),
		Kind:   nt.Kind,
		Amount: nt.Amount,
		Date:   web.GetTime(ctx).Round(time.Microsecond),
	}

	var updated Account
	fn := func(a *Account) error {
		if err := apply(a, r); err != nil {
			return err
		}
		a.History.Append(r)
		updated = a.Clone()
		return nil
	}

	if err := c.store.Update(ctx, number, fn); err != nil {
		return Account{}, err
	}

	return updated, nil
}

// Statement projects the account's history and current balance. It is read
// only and deterministic: calling it twice without an intervening operation
// yields the same entries and balance.
func (c *Core) Statement(ctx context.Context, number int) (Statement, error) {
	a, err := c.store.QueryByNumber(ctx, number)
	if err != nil {
		return Statement{}, err
	}

	return Statement{
		Entries: slices.Collect(a.History.All()),
		Balance: a.Balance,
		Date:    web.GetTime(ctx),
	}, nil
}

// QueryByNumber returns a snapshot of the account.
func (c *Core) QueryByNumber(ctx context.Context, number int) (Account, error) {
	return c.store.QueryByNumber(ctx, number)
}

// QueryAll returns snapshots of every account ordered by number.
func (c *Core) QueryAll(ctx context.Context) ([]Account, error) {
	return c.store.QueryAll(ctx)
}

// apply mutates the account according to the record's kind. All checks run
// before any mutation, so an error means the account was not touched.
func apply(a *Account, r Record) error {
	switch r.Kind {
	case Deposit:
		return deposit(a, r.Amount)
	case Withdrawal:
		return withdraw(a, r.Amount)
	default:
		return ErrInvalidKind
	}
}

func deposit(a *Account, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	a.Balance = a.Balance.Add(amount)
	return nil
}

// withdraw validates in a fixed order: the checking pre-checks (limit, then
// quota), then the funds check, then the amount check. The funds check comes
// before the amount check on purpose, insufficient funds wins when both
// would fail.
func withdraw(a *Account, amount decimal.Decimal) error {
	if p := a.Policy; p != nil {
		if amount.GreaterThan(p.WithdrawalLimit) {
			return ErrLimitExceeded
		}
		if a.History.CountOfKind(Withdrawal) >= p.MaxWithdrawals {
			return ErrWithdrawalQuotaExceeded
		}
	}

	switch {
	case amount.GreaterThan(a.Balance):
		return ErrInsufficientFunds
	case amount.Sign() > 0:
		a.Balance = a.Balance.Sub(amount)
		return nil
	default:
		return ErrInvalidAmount
	}
}
