package account

import (
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Branch is the code of the single branch this ledger serves.
const Branch = "0001"

// Kind tags a transaction as a deposit or a withdrawal.
type Kind string

const (
	Deposit    Kind = "deposit"
	Withdrawal Kind = "withdrawal"
)

// Record is one completed operation. Records are immutable and are created
// only when an operation succeeds.
type Record struct {
	ID     uuid.UUID
	Kind   Kind
	Amount decimal.Decimal
	Date   time.Time
}

// History is the append-only log of an account's records. Each account owns
// exactly one History, created with the account and never shared.
type History struct {
	records []Record
}

// Append adds a record at the end of the log.
func (h *History) Append(r Record) {
	h.records = append(h.records, r)
}

// Len returns the number of records.
func (h *History) Len() int {
	return len(h.records)
}

// CountOfKind returns how many records of kind k the log holds. It scans the
// log on every call: the History is the source of truth for the withdrawal
// quota, there is no separate counter to drift out of sync.
func (h *History) CountOfKind(k Kind) int {
	n := 0
	for _, r := range h.records {
		if r.Kind == k {
			n++
		}
	}
	return n
}

// All returns the records in insertion order.
func (h *History) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, r := range h.records {
			if !yield(r) {
				return
			}
		}
	}
}

func (h *History) clone() History {
	if h.records == nil {
		return History{}
	}
	records := make([]Record, len(h.records))
	copy(records, h.records)
	return History{records: records}
}

// CheckingPolicy constrains withdrawals on a checking account.
//
// MaxWithdrawals is a lifetime quota derived from the account History.
// There is no statement-period rollover: the counter never resets.
type CheckingPolicy struct {
	WithdrawalLimit decimal.Decimal
	MaxWithdrawals  int
}

// DefaultCheckingPolicy returns the policy applied to new checking accounts:
// at most 500 per withdrawal, at most 3 withdrawals.
func DefaultCheckingPolicy() *CheckingPolicy {
	return &CheckingPolicy{
		WithdrawalLimit: decimal.NewFromInt(500),
		MaxWithdrawals:  3,
	}
}

// Account holds a balance and the History of operations applied to it.
// A nil Policy makes it a plain account; a non-nil Policy makes it a
// checking account. Number and Branch are immutable after creation.
type Account struct {
	Number  int
	Branch  string
	OwnerID string
	Balance decimal.Decimal
	Policy  *CheckingPolicy
	History History
}

// Clone returns a deep copy of the account, safe to hand to callers.
func (a Account) Clone() Account {
	cp := a
	cp.History = a.History.clone()
	if a.Policy != nil {
		p := *a.Policy
		cp.Policy = &p
	}
	return cp
}

// NewTransaction is the information needed to apply an operation to an
// account.
type NewTransaction struct {
	Kind   Kind
	Amount decimal.Decimal
}

// Statement is the read-side projection of an account: the records in
// insertion order plus the current balance.
type Statement struct {
	Entries []Record
	Balance decimal.Decimal
	Date    time.Time
}
