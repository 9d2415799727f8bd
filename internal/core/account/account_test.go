package account_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/lfreitas/branchbank/internal/core/account"
	"github.com/lfreitas/branchbank/internal/core/account/store/accountmem"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCore(t *testing.T) *account.Core {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	return account.NewCore(accountmem.NewStore(log))
}

func openWithBalance(t *testing.T, core *account.Core, balance int64) account.Account {
	t.Helper()
	ctx := context.Background()

	a, err := core.Open(ctx, "52998224725")
	require.NoError(t, err)

	if balance > 0 {
		a, err = core.AddTransaction(ctx, a.Number, account.NewTransaction{
			Kind:   account.Deposit,
			Amount: decimal.NewFromInt(balance),
		})
		require.NoError(t, err)
	}
	return a
}

func TestOpenDefaults(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	a, err := core.Open(ctx, "52998224725")
	require.NoError(t, err)

	assert.Equal(t, 1, a.Number)
	assert.Equal(t, "0001", a.Branch)
	assert.True(t, a.Balance.IsZero())
	require.NotNil(t, a.Policy)
	assert.True(t, a.Policy.WithdrawalLimit.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 3, a.Policy.MaxWithdrawals)
	assert.Equal(t, 0, a.History.Len())

	b, err := core.Open(ctx, "52998224725")
	require.NoError(t, err)
	assert.Equal(t, 2, b.Number)
}

func TestDepositThenWithdraw(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	a := openWithBalance(t, core, 1000)
	assert.True(t, a.Balance.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, a.History.Len())
	assert.Equal(t, 1, a.History.CountOfKind(account.Deposit))

	a, err := core.AddTransaction(ctx, a.Number, account.NewTransaction{
		Kind:   account.Withdrawal,
		Amount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(decimal.NewFromInt(500)))

	_, err = core.AddTransaction(ctx, a.Number, account.NewTransaction{
		Kind:   account.Withdrawal,
		Amount: decimal.NewFromInt(600),
	})
	assert.ErrorIs(t, err, account.ErrInsufficientFunds)

	got, err := core.QueryByNumber(ctx, a.Number)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 2, got.History.Len())
}

func TestWithdrawRules(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		amount  decimal.Decimal
		wantErr error
	}{
		{"limit exceeded beats sufficient funds", 1000, decimal.NewFromInt(700), account.ErrLimitExceeded},
		{"insufficient funds", 100, decimal.NewFromInt(200), account.ErrInsufficientFunds},
		{"zero amount", 100, decimal.Zero, account.ErrInvalidAmount},
		{"negative amount", 100, decimal.NewFromInt(-5), account.ErrInvalidAmount},
		{"zero amount on empty balance", 0, decimal.Zero, account.ErrInvalidAmount},
		{"positive amount on empty balance", 0, decimal.NewFromInt(10), account.ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core := newTestCore(t)
			ctx := context.Background()
			a := openWithBalance(t, core, tt.balance)

			_, err := core.AddTransaction(ctx, a.Number, account.NewTransaction{
				Kind:   account.Withdrawal,
				Amount: tt.amount,
			})
			assert.ErrorIs(t, err, tt.wantErr)

			got, err := core.QueryByNumber(ctx, a.Number)
			require.NoError(t, err)
			assert.True(t, got.Balance.Equal(a.Balance), "balance must not change on failure")
			assert.Equal(t, a.History.Len(), got.History.Len(), "failed operations must not be recorded")
		})
	}
}

func TestDepositInvalidAmount(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()
	a := openWithBalance(t, core, 0)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-1)} {
		_, err := core.AddTransaction(ctx, a.Number, account.NewTransaction{
			Kind:   account.Deposit,
			Amount: amount,
		})
		assert.ErrorIs(t, err, account.ErrInvalidAmount)
	}

	got, err := core.QueryByNumber(ctx, a.Number)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
	assert.Equal(t, 0, got.History.Len())
}

func TestWithdrawalQuota(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()
	a := openWithBalance(t, core, 1000)

	ten := decimal.NewFromInt(10)
	for i := 0; i < 3; i++ {
		_, err := core.AddTransaction(ctx, a.Number, account.NewTransaction{
			Kind:   account.Withdrawal,
			Amount: ten,
		})
		require.NoError(t, err, "withdrawal %d should succeed", i+1)
	}

	_, err := core.AddTransaction(ctx, a.Number, account.NewTransaction{
		Kind:   account.Withdrawal,
		Amount: ten,
	})
	assert.ErrorIs(t, err, account.ErrWithdrawalQuotaExceeded)

	got, err := core.QueryByNumber(ctx, a.Number)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(970)))
	assert.Equal(t, 3, got.History.CountOfKind(account.Withdrawal))
}

func TestQuotaCountsOnlySuccessfulWithdrawals(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()
	a := openWithBalance(t, core, 100)

	// Failed attempts must not consume quota.
	for i := 0; i < 5; i++ {
		_, err := core.AddTransaction(ctx, a.Number, account.NewTransaction{
			Kind:   account.Withdrawal,
			Amount: decimal.NewFromInt(200),
		})
		require.ErrorIs(t, err, account.ErrInsufficientFunds)
	}

	for i := 0; i < 3; i++ {
		_, err := core.AddTransaction(ctx, a.Number, account.NewTransaction{
			Kind:   account.Withdrawal,
			Amount: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
	}
}

func TestInvalidKind(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()
	a := openWithBalance(t, core, 100)

	_, err := core.AddTransaction(ctx, a.Number, account.NewTransaction{
		Kind:   account.Kind("transfer"),
		Amount: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, account.ErrInvalidKind)
}

func TestAccountNotFound(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	_, err := core.AddTransaction(ctx, 42, account.NewTransaction{
		Kind:   account.Deposit,
		Amount: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, account.ErrNotFound)

	_, err = core.Statement(ctx, 42)
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestStatement(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()
	a := openWithBalance(t, core, 1000)

	_, err := core.AddTransaction(ctx, a.Number, account.NewTransaction{
		Kind:   account.Withdrawal,
		Amount: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	st, err := core.Statement(ctx, a.Number)
	require.NoError(t, err)

	require.Len(t, st.Entries, 2)
	assert.Equal(t, account.Deposit, st.Entries[0].Kind)
	assert.True(t, st.Entries[0].Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, account.Withdrawal, st.Entries[1].Kind)
	assert.True(t, st.Entries[1].Amount.Equal(decimal.NewFromInt(300)))
	assert.True(t, st.Balance.Equal(decimal.NewFromInt(700)))

	// Projection is read only: a second call yields the same entries and
	// balance.
	again, err := core.Statement(ctx, a.Number)
	require.NoError(t, err)
	assert.Equal(t, st.Entries, again.Entries)
	assert.True(t, st.Balance.Equal(again.Balance))
}

func TestStatementEmptyHistory(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()
	a := openWithBalance(t, core, 0)

	st, err := core.Statement(ctx, a.Number)
	require.NoError(t, err)
	assert.Empty(t, st.Entries)
	assert.True(t, st.Balance.IsZero())
}

func TestHistoryCountMatchesSuccessfulOperations(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()
	a := openWithBalance(t, core, 0)

	ops := []struct {
		nt account.NewTransaction
		ok bool
	}{
		{account.NewTransaction{Kind: account.Deposit, Amount: decimal.NewFromInt(100)}, true},
		{account.NewTransaction{Kind: account.Deposit, Amount: decimal.Zero}, false},
		{account.NewTransaction{Kind: account.Withdrawal, Amount: decimal.NewFromInt(30)}, true},
		{account.NewTransaction{Kind: account.Withdrawal, Amount: decimal.NewFromInt(1000)}, false},
		{account.NewTransaction{Kind: account.Deposit, Amount: decimal.NewFromInt(1)}, true},
	}

	want := 0
	for _, op := range ops {
		_, err := core.AddTransaction(ctx, a.Number, op.nt)
		if op.ok {
			require.NoError(t, err)
			want++
		} else {
			require.Error(t, err)
		}
	}

	got, err := core.QueryByNumber(ctx, a.Number)
	require.NoError(t, err)
	assert.Equal(t, want, got.History.Len())
	assert.False(t, got.Balance.IsNegative())
}
