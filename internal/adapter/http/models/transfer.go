package models

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const maxReferenceLength = 140

type SubmitTransferRequest struct {
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
}

// Validate checks structure only. Amount sign and precision are checked by
// the transfer engine so that recipient problems are reported first.
func (r SubmitTransferRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Recipient) == "" {
		errs = append(errs, "recipient is required")
	}
	// Characters, not bytes, to match the column's VARCHAR(140) limit.
	if utf8.RuneCountInString(strings.TrimSpace(r.Reference)) > maxReferenceLength {
		errs = append(errs, "reference cannot exceed 140 characters")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type SubmitTransferResponse struct {
	TransferID string `json:"transferId"`
	Fee        string `json:"fee"`
	NewBalance string `json:"newBalance"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
}

type GetTransferResponse struct {
	TransferID string `json:"transferId"`
	FromUser   string `json:"fromUser"`
	ToUser     string `json:"toUser"`
	Amount     string `json:"amount"`
	Fee        string `json:"fee"`
	Reference  string `json:"reference,omitempty"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

type ListTransfersResponse struct {
	Transfers []GetTransferResponse `json:"transfers"`
}
