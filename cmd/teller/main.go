// Teller is the interactive shell of the branch: a menu loop that prompts,
// parses raw input and renders results. Every business rule lives in the
// core packages; the teller only talks to them.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lfreitas/branchbank/internal/core/account"
	"github.com/lfreitas/branchbank/internal/core/account/store/accountmem"
	"github.com/lfreitas/branchbank/internal/core/client"
	"github.com/lfreitas/branchbank/internal/core/client/store/clientmem"
	"github.com/shopspring/decimal"
)

const menu = `
================ MENU ================
[d]	Deposit
[w]	Withdraw
[s]	Statement
[na]	New account
[la]	List accounts
[nc]	New client
[q]	Quit
=> `

func main() {
	// The teller session is interactive, store logs would garble the menu.
	log := slog.New(slog.DiscardHandler)

	accounts := account.NewCore(accountmem.NewStore(log))
	clients := client.NewCore(clientmem.NewStore(log), accounts)

	t := teller{
		in:       bufio.NewScanner(os.Stdin),
		clients:  clients,
		accounts: accounts,
	}
	t.run(context.Background())
}

type teller struct {
	in       *bufio.Scanner
	clients  *client.Core
	accounts *account.Core
}

func (t *teller) run(ctx context.Context) {
	for {
		fmt.Print(menu)
		if !t.in.Scan() {
			return
		}

		switch strings.TrimSpace(t.in.Text()) {
		case "d":
			t.transaction(ctx, account.Deposit)
		case "w":
			t.transaction(ctx, account.Withdrawal)
		case "s":
			t.statement(ctx)
		case "nc":
			t.createClient(ctx)
		case "na":
			t.createAccount(ctx)
		case "la":
			t.listAccounts(ctx)
		case "q":
			return
		default:
			fmt.Println("\n@@@ Invalid operation, please try again. @@@")
		}
	}
}

func (t *teller) transaction(ctx context.Context, kind account.Kind) {
	cl, ok := t.findClient(ctx)
	if !ok {
		return
	}

	verb := "deposit"
	if kind == account.Withdrawal {
		verb = "withdrawal"
	}
	amount, err := decimal.NewFromString(t.prompt("Enter " + verb + " amount: "))
	if err != nil {
		fmt.Println("\n@@@ Invalid input! @@@")
		return
	}

	number, ok := t.selectAccount(cl)
	if !ok {
		return
	}

	nt := account.NewTransaction{Kind: kind, Amount: amount}
	if _, err := t.clients.PerformTransaction(ctx, cl.ID, number, nt); err != nil {
		fmt.Printf("\n@@@ Operation failed! %s @@@\n", failure(err))
		return
	}

	if kind == account.Deposit {
		fmt.Println("\n=== Deposit completed successfully! ===")
	} else {
		fmt.Println("\n=== Withdrawal completed successfully! ===")
	}
}

func (t *teller) statement(ctx context.Context) {
	cl, ok := t.findClient(ctx)
	if !ok {
		return
	}

	number, ok := t.selectAccount(cl)
	if !ok {
		return
	}

	st, err := t.clients.Statement(ctx, cl.ID, number)
	if err != nil {
		fmt.Printf("\n@@@ Operation failed! %s @@@\n", failure(err))
		return
	}

	fmt.Println("\n================ STATEMENT ================")
	if len(st.Entries) == 0 {
		fmt.Println("No transactions have been made.")
	}
	for _, e := range st.Entries {
		fmt.Printf("%s:\n\t$ %s\n", e.Kind, e.Amount.StringFixed(2))
	}
	fmt.Printf("\nBalance:\n\t$ %s\n", st.Balance.StringFixed(2))
	fmt.Println("===========================================")
}

func (t *teller) createClient(ctx context.Context) {
	nc := client.NewClient{
		ID:        t.prompt("Enter SSN (numbers only): "),
		Name:      t.prompt("Enter full name: "),
		BirthDate: t.prompt("Enter birth date (dd-mm-yyyy): "),
		Address:   t.prompt("Enter address (street, number - neighborhood - city/state): "),
	}

	if _, err := t.clients.Create(ctx, nc); err != nil {
		if errors.Is(err, client.ErrDuplicate) {
			fmt.Println("\n@@@ A client with this SSN already exists! @@@")
		} else {
			fmt.Printf("\n@@@ Operation failed! %s @@@\n", failure(err))
		}
		return
	}

	fmt.Println("\n=== Client created successfully! ===")
}

func (t *teller) createAccount(ctx context.Context) {
	ssn := t.prompt("Enter client SSN: ")

	if _, err := t.clients.OpenAccount(ctx, ssn); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			fmt.Println("\n@@@ Client not found, account creation process terminated! @@@")
		} else {
			fmt.Printf("\n@@@ Operation failed! %s @@@\n", failure(err))
		}
		return
	}

	fmt.Println("\n=== Account created successfully! ===")
}

func (t *teller) listAccounts(ctx context.Context) {
	accts, err := t.accounts.QueryAll(ctx)
	if err != nil {
		fmt.Printf("\n@@@ Operation failed! %s @@@\n", failure(err))
		return
	}

	for _, a := range accts {
		fmt.Println(strings.Repeat("=", 100))
		fmt.Printf("Branch:\t\t%s\nAccount:\t%d\nHolder:\t\t%s\n", a.Branch, a.Number, a.OwnerID)
	}
}

func (t *teller) findClient(ctx context.Context) (client.Client, bool) {
	ssn := t.prompt("Enter client SSN: ")

	cl, err := t.clients.QueryByID(ctx, ssn)
	if err != nil {
		fmt.Println("\n@@@ Client not found! @@@")
		return client.Client{}, false
	}
	return cl, true
}

// selectAccount lists the client's accounts and asks for a 1-based choice.
func (t *teller) selectAccount(cl client.Client) (int, bool) {
	if len(cl.Accounts) == 0 {
		fmt.Println("\n@@@ Client has no account! @@@")
		return 0, false
	}

	fmt.Println("\n=== Select an account ===")
	for i, number := range cl.Accounts {
		fmt.Printf("[%d] Account %d - Branch %s\n", i+1, number, account.Branch)
	}

	option, err := strconv.Atoi(t.prompt("Choose an account number: "))
	if err != nil {
		fmt.Println("\n@@@ Invalid input! @@@")
		return 0, false
	}
	if option < 1 || option > len(cl.Accounts) {
		fmt.Println("\n@@@ Invalid option! @@@")
		return 0, false
	}

	return cl.Accounts[option-1], true
}

func (t *teller) prompt(label string) string {
	fmt.Print(label)
	if !t.in.Scan() {
		return ""
	}
	return strings.TrimSpace(t.in.Text())
}

// failure renders a core error as the user-facing part of a failure message.
func failure(err error) string {
	switch {
	case errors.Is(err, account.ErrInsufficientFunds):
		return "Insufficient funds."
	case errors.Is(err, account.ErrInvalidAmount):
		return "Invalid amount."
	case errors.Is(err, account.ErrLimitExceeded):
		return "Withdrawal amount exceeds the limit."
	case errors.Is(err, account.ErrWithdrawalQuotaExceeded):
		return "Maximum number of withdrawals exceeded."
	case errors.Is(err, client.ErrAccountNotHeld):
		return "Account is not held by this client."
	default:
		return err.Error() + "."
	}
}
