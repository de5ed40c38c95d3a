package core

import (
	"context"
	"net/http"
)

// Operation names used for routing table lookups and telemetry.
const (
	OpLogin          = "login"
	OpRegister       = "register"
	OpAccounts       = "accounts"
	OpCreateAccount  = "create_account"
	OpDeposit        = "deposit"
	OpWithdraw       = "withdraw"
	OpTransfer       = "transfer"
	OpTransactions   = "transactions"
	OpBalance        = "balance"
	OpTestConnection = "test_connection"
)

// OperationObserver receives the Result of every backend operation without
// being able to alter it. Used for telemetry.
type OperationObserver interface {
	ObserveOperation(ctx context.Context, op string, r Result)
}

// BankingAPI binds RequestClient to the fixed backend contract. Each
// operation is a thin, statically-named binding: one route, one payload
// shape, the Result returned unchanged. Business validation does not
// happen here.
type BankingAPI struct {
	client    RequestClient
	observers []OperationObserver
}

func NewBankingAPI(client RequestClient, observers ...OperationObserver) *BankingAPI {
	return &BankingAPI{client: client, observers: observers}
}

func (a *BankingAPI) report(ctx context.Context, op string, r Result) Result {
	for _, o := range a.observers {
		if o != nil {
			o.ObserveOperation(ctx, op, r)
		}
	}
	return r
}

func (a *BankingAPI) Login(ctx context.Context, username, password string) Result {
	return a.report(ctx, OpLogin, a.client.Execute(ctx, http.MethodPost, "/api/login", map[string]any{
		"username": username,
		"password": password,
	}, nil))
}

func (a *BankingAPI) Register(ctx context.Context, username, password, email, fullName, phone string) Result {
	return a.report(ctx, OpRegister, a.client.Execute(ctx, http.MethodPost, "/api/register", map[string]any{
		"username":  username,
		"password":  password,
		"email":     email,
		"full_name": fullName,
		"phone":     phone,
	}, nil))
}

func (a *BankingAPI) Accounts(ctx context.Context, username string) Result {
	return a.report(ctx, OpAccounts, a.client.Execute(ctx, http.MethodGet, "/api/accounts", nil, map[string]string{
		"username": username,
	}))
}

func (a *BankingAPI) CreateAccount(ctx context.Context, username, accountType string, initialBalance float64) Result {
	return a.report(ctx, OpCreateAccount, a.client.Execute(ctx, http.MethodPost, "/api/accounts/create", map[string]any{
		"username":        username,
		"account_type":    accountType,
		"initial_balance": initialBalance,
	}, nil))
}

func (a *BankingAPI) Deposit(ctx context.Context, accountNumber string, amount float64, description string) Result {
	return a.report(ctx, OpDeposit, a.client.Execute(ctx, http.MethodPost, "/api/transactions/deposit", map[string]any{
		"account_number": accountNumber,
		"amount":         amount,
		"description":    description,
	}, nil))
}

func (a *BankingAPI) Withdraw(ctx context.Context, accountNumber string, amount float64, description string) Result {
	return a.report(ctx, OpWithdraw, a.client.Execute(ctx, http.MethodPost, "/api/transactions/withdraw", map[string]any{
		"account_number": accountNumber,
		"amount":         amount,
		"description":    description,
	}, nil))
}

func (a *BankingAPI) Transfer(ctx context.Context, fromAccount, toAccount string, amount float64, description string) Result {
	return a.report(ctx, OpTransfer, a.client.Execute(ctx, http.MethodPost, "/api/transactions/transfer", map[string]any{
		"from_account": fromAccount,
		"to_account":   toAccount,
		"amount":       amount,
		"description":  description,
	}, nil))
}

func (a *BankingAPI) Transactions(ctx context.Context, accountNumber string) Result {
	return a.report(ctx, OpTransactions, a.client.Execute(ctx, http.MethodGet, "/api/transactions", nil, map[string]string{
		"account_number": accountNumber,
	}))
}

func (a *BankingAPI) Balance(ctx context.Context, accountNumber string) Result {
	return a.report(ctx, OpBalance, a.client.Execute(ctx, http.MethodGet, "/api/balance", nil, map[string]string{
		"account_number": accountNumber,
	}))
}

// TestConnection runs the lightweight connectivity probe against GET /api.
func (a *BankingAPI) TestConnection(ctx context.Context) Result {
	return a.report(ctx, OpTestConnection, a.client.Probe(ctx))
}
