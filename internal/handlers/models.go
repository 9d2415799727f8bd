package handlers

import (
	"time"

	"github.com/lfreitas/branchbank/internal/core/account"
	"github.com/lfreitas/branchbank/internal/core/client"
	"github.com/shopspring/decimal"
)

type NewClientReq struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Address   string `json:"address"`
}

type ClientResp struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Address   string `json:"address"`
	Accounts  []int  `json:"accounts"`
}

type AccountResp struct {
	Number  int             `json:"number"`
	Branch  string          `json:"branch"`
	Owner   string          `json:"owner"`
	Balance decimal.Decimal `json:"balance"`
}

type TransactionReq struct {
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

type TransactionResp struct {
	Number  int             `json:"number"`
	Balance decimal.Decimal `json:"balance"`
}

type Entry struct {
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

type StatementResp struct {
	Entries []Entry         `json:"entries"`
	Balance decimal.Decimal `json:"balance"`
	Date    time.Time       `json:"date"`
}

func toClientResp(c client.Client) ClientResp {
	accounts := c.Accounts
	if accounts == nil {
		accounts = []int{}
	}
	return ClientResp{
		ID:        c.ID,
		Name:      c.Name,
		BirthDate: c.BirthDate,
		Address:   c.Address,
		Accounts:  accounts,
	}
}

func toAccountResp(a account.Account) AccountResp {
	return AccountResp{
		Number:  a.Number,
		Branch:  a.Branch,
		Owner:   a.OwnerID,
		Balance: a.Balance,
	}
}

func toStatementResp(st account.Statement) StatementResp {
	entries := make([]Entry, len(st.Entries))
	for i, r := range st.Entries {
		entries[i] = Entry{
			Kind:   string(r.Kind),
			Amount: r.Amount,
			Date:   r.Date,
		}
	}
	return StatementResp{
		Entries: entries,
		Balance: st.Balance,
		Date:    st.Date,
	}
}
