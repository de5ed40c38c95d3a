package core

import (
	"fmt"
	"math"
)

// Account is a read-only projection of a backend account. The client never
// mutates one locally; every view is a fresh fetch.
type Account struct {
	AccountNumber  string  `json:"account_number"`
	AccountType    string  `json:"account_type"`
	Balance        float64 `json:"balance"`
	Status         string  `json:"status"`
	DailyLimit     float64 `json:"daily_limit"`
	MinimumBalance float64 `json:"minimum_balance"`
}

// Transaction is a read-only projection of one ledger entry.
type Transaction struct {
	Timestamp   string  `json:"timestamp"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
}

var accountTypes = []string{"CHECKING", "SAVINGS", "BUSINESS"}

func isSupportedAccountType(t string) bool {
	for _, v := range accountTypes {
		if v == t {
			return true
		}
	}
	return false
}

// AccountFromPayload decodes one account object with centralized defaults.
func AccountFromPayload(p Payload) Account {
	return Account{
		AccountNumber:  p.String("account_number", ""),
		AccountType:    p.String("account_type", "UNKNOWN"),
		Balance:        p.Number("balance", 0),
		Status:         p.String("status", "UNKNOWN"),
		DailyLimit:     p.Number("daily_limit", 0),
		MinimumBalance: p.Number("minimum_balance", 0),
	}
}

// TransactionFromPayload decodes one transaction object.
func TransactionFromPayload(p Payload) Transaction {
	return Transaction{
		Timestamp:   p.String("timestamp", ""),
		Type:        p.String("type", "UNKNOWN"),
		Amount:      p.Number("amount", 0),
		Description: p.String("description", ""),
		Status:      p.String("status", "UNKNOWN"),
	}
}

// AccountsFromResult extracts the accounts list from a transport-successful
// Result.
func AccountsFromResult(r Result) []Account {
	items := r.Data.List("accounts")
	out := make([]Account, 0, len(items))
	for _, p := range items {
		out = append(out, AccountFromPayload(p))
	}
	return out
}

// TransactionsFromResult extracts the transactions list.
func TransactionsFromResult(r Result) []Transaction {
	items := r.Data.List("transactions")
	out := make([]Transaction, 0, len(items))
	for _, p := range items {
		out = append(out, TransactionFromPayload(p))
	}
	return out
}

// Cents converts a wire amount to integer cents. Totals are accumulated in
// cents so chained deposits/withdrawals never drift through binary floats.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// TotalBalanceCents sums account balances in integer cents.
func TotalBalanceCents(accounts []Account) int64 {
	var total int64
	for _, a := range accounts {
		total += Cents(a.Balance)
	}
	return total
}

// FormatCents renders integer cents as a currency string, e.g. "$1,234.56".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	dollars := cents / 100
	rem := cents % 100
	return fmt.Sprintf("%s$%s.%02d", sign, groupThousands(dollars), rem)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// MaskAccountNumber hides all but the last four digits for display.
func MaskAccountNumber(accountNumber string) string {
	if len(accountNumber) >= 8 {
		return "****" + accountNumber[len(accountNumber)-4:]
	}
	return accountNumber
}
