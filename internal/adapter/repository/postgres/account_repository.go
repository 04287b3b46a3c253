package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/corebank/transfer-engine/internal/domain"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetBalance(ctx context.Context, username string) (string, error) {
	const query = `
SELECT balance::text
FROM accounts
WHERE username = $1`

	var balance string
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrRecordNotFound
		}
		return "", fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}
