package core

import (
	"strings"
	"unicode"
)

// Validation is the outcome of a pure pre-flight input check. These rules
// run before any network call; a missing value is a failing validation,
// never a panic or error return.
type Validation struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func valid() Validation             { return Validation{Valid: true} }
func invalid(msg string) Validation { return Validation{Valid: false, Error: msg} }

// ValidateUsername requires 3-20 alphanumeric characters.
func ValidateUsername(username string) Validation {
	if username == "" {
		return invalid("Username is required")
	}
	if len(username) < 3 {
		return invalid("Username must be at least 3 characters")
	}
	if len(username) > 20 {
		return invalid("Username must be less than 20 characters")
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return invalid("Username can only contain letters and numbers")
		}
	}
	return valid()
}

// ValidatePassword requires 6-50 characters.
func ValidatePassword(password string) Validation {
	if password == "" {
		return invalid("Password is required")
	}
	if len(password) < 6 {
		return invalid("Password must be at least 6 characters")
	}
	if len(password) > 50 {
		return invalid("Password must be less than 50 characters")
	}
	return valid()
}

// ValidateEmail applies a loose shape check only: both "@" and "." must
// appear, capped at 100 characters. Real verification is the backend's job.
func ValidateEmail(email string) Validation {
	if email == "" {
		return invalid("Email is required")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return invalid("Please enter a valid email address")
	}
	if len(email) > 100 {
		return invalid("Email must be less than 100 characters")
	}
	return valid()
}

// ValidateFullName requires 2-100 characters.
func ValidateFullName(name string) Validation {
	if name == "" {
		return invalid("Full name is required")
	}
	if len(name) < 2 {
		return invalid("Full name must be at least 2 characters")
	}
	if len(name) > 100 {
		return invalid("Full name must be less than 100 characters")
	}
	return valid()
}

// ValidateAmount accepts strictly positive amounts up to 1,000,000.
func ValidateAmount(amount float64) Validation {
	if amount <= 0 {
		return invalid("Amount must be greater than 0")
	}
	if amount > 1_000_000 {
		return invalid("Amount cannot exceed $1,000,000")
	}
	return valid()
}

// ValidateTransfer is the pre-flight rule for transfers: source and
// destination must differ. Checked before the network call is made.
func ValidateTransfer(fromAccount, toAccount string) Validation {
	if strings.TrimSpace(fromAccount) == "" || strings.TrimSpace(toAccount) == "" {
		return invalid("Both accounts are required")
	}
	if fromAccount == toAccount {
		return invalid("Cannot transfer to the same account")
	}
	return valid()
}

// ValidateInitialBalance allows zero for a freshly opened account.
func ValidateInitialBalance(balance float64) Validation {
	if balance < 0 {
		return invalid("Initial balance cannot be negative")
	}
	if balance > 1_000_000 {
		return invalid("Amount cannot exceed $1,000,000")
	}
	return valid()
}
