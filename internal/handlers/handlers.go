// Package handlers exposes the ledger core over HTTP. The handlers only
// parse requests and render results; every business decision stays in the
// core packages.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lfreitas/branchbank/internal/core/account"
	"github.com/lfreitas/branchbank/internal/core/client"
	"go.opentelemetry.io/otel/trace"
)

func APIMux(s *Server, tracer trace.Tracer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("POST /clients", middlewareWeb(tracer, s.CreateClient))
	mux.Handle("GET /clients/{id}", middlewareWeb(tracer, s.ShowClient))
	mux.Handle("POST /clients/{id}/accounts", middlewareWeb(tracer, s.OpenAccount))
	mux.Handle("GET /accounts", middlewareWeb(tracer, s.ListAccounts))
	mux.Handle("POST /clients/{id}/accounts/{number}/transactions", middlewareWeb(tracer, s.Transactions))
	mux.Handle("GET /clients/{id}/accounts/{number}/statement", middlewareWeb(tracer, s.Statement))

	return mux
}

type Server struct {
	log      *slog.Logger
	clients  *client.Core
	accounts *account.Core
}

func NewServer(log *slog.Logger, clients *client.Core, accounts *account.Core) *Server {
	return &Server{log: log, clients: clients, accounts: accounts}
}

func (s *Server) CreateClient(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusCreated,
		func(ctx context.Context, req NewClientReq) (ClientResp, error) {
			nc := client.NewClient{
				ID:        req.ID,
				Name:      req.Name,
				BirthDate: req.BirthDate,
				Address:   req.Address,
			}

			c, err := s.clients.Create(ctx, nc)
			if err != nil {
				return ClientResp{}, err
			}

			return toClientResp(c), nil
		},
	)
}

func (s *Server) ShowClient(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) (ClientResp, error) {
			c, err := s.clients.QueryByID(ctx, r.PathValue("id"))
			if err != nil {
				return ClientResp{}, err
			}

			return toClientResp(c), nil
		},
	)
}

func (s *Server) OpenAccount(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusCreated,
		func(ctx context.Context, _ struct{}) (AccountResp, error) {
			a, err := s.clients.OpenAccount(ctx, r.PathValue("id"))
			if err != nil {
				return AccountResp{}, err
			}

			return toAccountResp(a), nil
		},
	)
}

func (s *Server) ListAccounts(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) ([]AccountResp, error) {
			accts, err := s.accounts.QueryAll(ctx)
			if err != nil {
				return nil, err
			}

			resp := make([]AccountResp, len(accts))
			for i, a := range accts {
				resp[i] = toAccountResp(a)
			}
			return resp, nil
		},
	)
}

func (s *Server) Transactions(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, req TransactionReq) (TransactionResp, error) {
			number, err := getNumber(r)
			if err != nil {
				return TransactionResp{}, err
			}

			nt := account.NewTransaction{
				Kind:   account.Kind(req.Kind),
				Amount: req.Amount,
			}

			a, err := s.clients.PerformTransaction(ctx, r.PathValue("id"), number, nt)
			if err != nil {
				return TransactionResp{}, err
			}

			return TransactionResp{Number: a.Number, Balance: a.Balance}, nil
		},
	)
}

func (s *Server) Statement(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) (StatementResp, error) {
			number, err := getNumber(r)
			if err != nil {
				return StatementResp{}, err
			}

			st, err := s.clients.Statement(ctx, r.PathValue("id"), number)
			if err != nil {
				return StatementResp{}, err
			}

			return toStatementResp(st), nil
		},
	)
}

func getNumber(r *http.Request) (int, error) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		return 0, account.ErrNotFound
	}
	return number, nil
}

func serveJSON[Req any, Resp any](
	w http.ResponseWriter,
	r *http.Request,
	s *Server,
	status int,
	fn func(ctx context.Context, req Req) (Resp, error),
) {
	var req Req
	if r.Method != http.MethodGet {
		if r.Header.Get("Content-Type") != "application/json" {
			s.log.Error("request must be a json")
			http.Error(w, "request must be a json", http.StatusBadRequest)
			return
		}

		err := json.NewDecoder(r.Body).Decode(&req)
		r.Body.Close()
		if err != nil {
			s.log.Error("decoding json", "ERROR", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
	}

	resp, err := fn(r.Context(), req)
	if err != nil {
		s.log.Error("fn", "ERROR", err)
		switch {
		case errors.Is(err, client.ErrNotFound), errors.Is(err, account.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
			return

		case errors.Is(err, client.ErrDuplicate):
			http.Error(w, err.Error(), http.StatusConflict)
			return

		case errors.Is(err, client.ErrInvalidArgument),
			errors.Is(err, account.ErrInvalidAmount),
			errors.Is(err, account.ErrInvalidKind):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return

		case errors.Is(err, account.ErrInsufficientFunds),
			errors.Is(err, account.ErrLimitExceeded),
			errors.Is(err, account.ErrWithdrawalQuotaExceeded),
			errors.Is(err, client.ErrAccountNotHeld):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return

		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	bs, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("failed to encode response", "ERROR", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bs)
}
