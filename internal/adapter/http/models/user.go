package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateUserRequest struct {
	Username       string          `json:"username"`
	Password       string          `json:"password"`
	Email          string          `json:"email"`
	InitialDeposit decimal.Decimal `json:"initialDeposit"`
}

func (r CreateUserRequest) Validate() error {
	var errs []string

	if !isValidUsername(strings.TrimSpace(r.Username)) {
		errs = append(errs, "username must be 3-32 characters of lowercase letters, digits, or underscores")
	}
	if len(r.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	if email := strings.TrimSpace(r.Email); email != "" && !strings.Contains(email, "@") {
		errs = append(errs, "email is not valid")
	}
	if r.InitialDeposit.IsNegative() {
		errs = append(errs, "initialDeposit cannot be negative")
	}
	if !r.InitialDeposit.Equal(r.InitialDeposit.Round(2)) {
		errs = append(errs, "initialDeposit must have at most two decimal places")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type CreateUserResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"createdAt"`
}

func isValidUsername(value string) bool {
	if len(value) < 3 || len(value) > 32 {
		return false
	}
	for _, ch := range value {
		if (ch < 'a' || ch > 'z') && (ch < '0' || ch > '9') && ch != '_' {
			return false
		}
	}
	return true
}
