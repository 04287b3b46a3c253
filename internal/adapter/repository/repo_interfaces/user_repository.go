package repo_interfaces

import (
	"context"

	"github.com/corebank/transfer-engine/internal/domain"
	"github.com/shopspring/decimal"
)

type UserRepository interface {
	// Create provisions the user together with its account row. The two are
	// written in a single transaction so a user can never exist without an
	// account.
	Create(ctx context.Context, user domain.User, initialBalance decimal.Decimal) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetPasswordHashByUsername(ctx context.Context, username string) (string, error)
}
