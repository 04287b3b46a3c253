package repo_interfaces

import (
	"context"

	"github.com/corebank/transfer-engine/internal/domain"
	"github.com/shopspring/decimal"
)

type TransferRepository interface {
	Create(ctx context.Context, transfer domain.Transfer) (domain.Transfer, error)
	Get(ctx context.Context, transferID string) (domain.Transfer, error)
	// UpdateStatus finalizes a PENDING transfer. Terminal statuses are
	// immutable: updating an already COMPLETED or FAILED transfer fails with
	// ErrRecordNotFound.
	UpdateStatus(ctx context.Context, transferID string, status domain.TransferStatus, reason string) error
	// ApplyTransfer debits the sender, credits the recipient, and marks the
	// transfer COMPLETED as one atomic unit. All three are durably visible
	// together or not at all. Returns the sender's new balance. Fails with
	// ErrInsufficientFunds, leaving every row untouched, when the sender's
	// balance does not cover the debit.
	ApplyTransfer(ctx context.Context, fromUser, toUser string, debitAmount, creditAmount decimal.Decimal, transferID string) (string, error)
	ListByUser(ctx context.Context, username string) ([]domain.Transfer, error)
}
