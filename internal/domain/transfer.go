package domain

import "time"

type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "PENDING"
	TransferStatusCompleted TransferStatus = "COMPLETED"
	TransferStatusFailed    TransferStatus = "FAILED"
)

// IsTerminal reports whether the status can never change again.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusCompleted || s == TransferStatusFailed
}

type Transfer struct {
	ID        string
	FromUser  string
	ToUser    string
	Amount    string
	Fee       string
	Reference *string
	Status    TransferStatus
	Reason    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
