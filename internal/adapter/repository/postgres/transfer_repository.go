package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/corebank/transfer-engine/internal/domain"
	"github.com/corebank/transfer-engine/internal/logger"
	"github.com/shopspring/decimal"
)

type TransferRepository struct {
	db *sql.DB
}

func NewTransferRepository(db *sql.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) Create(ctx context.Context, transfer domain.Transfer) (domain.Transfer, error) {
	logger.Info("transfer repository create", logger.Fields{
		"transferId": transfer.ID,
		"fromUser":   transfer.FromUser,
		"toUser":     transfer.ToUser,
		"status":     transfer.Status,
	})

	const query = `
INSERT INTO transfers (
	transfer_id,
	from_user,
	to_user,
	amount,
	fee,
	reference,
	status,
	reason
) VALUES (
	$1, $2, $3, $4::numeric, $5::numeric, $6, $7, $8
)
RETURNING created_at, updated_at`

	var createdAt time.Time
	var updatedAt time.Time

	if err := r.db.QueryRowContext(
		ctx,
		query,
		transfer.ID,
		transfer.FromUser,
		transfer.ToUser,
		transfer.Amount,
		transfer.Fee,
		transfer.Reference,
		transfer.Status,
		transfer.Reason,
	).Scan(&createdAt, &updatedAt); err != nil {
		logger.Error("transfer repository create failed", err, logger.Fields{
			"transferId": transfer.ID,
		})
		return domain.Transfer{}, fmt.Errorf("create transfer: %w", err)
	}

	transfer.CreatedAt = createdAt
	transfer.UpdatedAt = updatedAt

	return transfer, nil
}

func (r *TransferRepository) Get(ctx context.Context, transferID string) (domain.Transfer, error) {
	const query = `
SELECT transfer_id,
       from_user,
       to_user,
       amount::text,
       fee::text,
       reference,
       status,
       reason,
       created_at,
       updated_at
FROM transfers
WHERE transfer_id = $1`

	var (
		transfer  domain.Transfer
		reference sql.NullString
		reason    sql.NullString
	)

	if err := r.db.QueryRowContext(ctx, query, transferID).Scan(
		&transfer.ID,
		&transfer.FromUser,
		&transfer.ToUser,
		&transfer.Amount,
		&transfer.Fee,
		&reference,
		&transfer.Status,
		&reason,
		&transfer.CreatedAt,
		&transfer.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transfer{}, domain.ErrRecordNotFound
		}
		return domain.Transfer{}, fmt.Errorf("get transfer: %w", err)
	}

	if reference.Valid {
		value := reference.String
		transfer.Reference = &value
	}
	if reason.Valid {
		value := reason.String
		transfer.Reason = &value
	}

	return transfer, nil
}

// UpdateStatus finalizes a PENDING transfer; terminal rows are never touched.
func (r *TransferRepository) UpdateStatus(ctx context.Context, transferID string, status domain.TransferStatus, reason string) error {
	logger.Info("transfer repository update status", logger.Fields{
		"transferId": transferID,
		"status":     status,
	})

	const query = `
UPDATE transfers
SET status = $2,
    reason = NULLIF($3, ''),
    updated_at = NOW()
WHERE transfer_id = $1
  AND status = 'PENDING'`

	result, err := r.db.ExecContext(ctx, query, transferID, status, reason)
	if err != nil {
		logger.Error("transfer repository update status failed", err, logger.Fields{
			"transferId": transferID,
		})
		return fmt.Errorf("update transfer status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transfer status rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// ApplyTransfer runs the atomic commit: debit the sender, credit the
// recipient, and mark the transfer COMPLETED in a single transaction. Both
// account rows are locked in username order so two opposite-direction
// transfers cannot deadlock each other.
func (r *TransferRepository) ApplyTransfer(ctx context.Context, fromUser, toUser string, debitAmount, creditAmount decimal.Decimal, transferID string) (string, error) {
	logger.Info("transfer repository apply transfer", logger.Fields{
		"transferId":  transferID,
		"fromUser":    fromUser,
		"toUser":      toUser,
		"debitAmount": debitAmount.StringFixed(2),
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("transfer repository begin tx failed", err, nil)
		return "", fmt.Errorf("begin transfer transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	first, second := fromUser, toUser
	if first > second {
		first, second = second, first
	}

	const lockQuery = `SELECT balance FROM accounts WHERE username = $1 FOR UPDATE`
	var locked string
	for _, username := range []string{first, second} {
		if err = tx.QueryRowContext(ctx, lockQuery, username).Scan(&locked); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				err = domain.ErrRecordNotFound
				return "", err
			}
			return "", fmt.Errorf("lock account %q: %w", username, err)
		}
	}

	const debitQuery = `
UPDATE accounts
SET balance = balance - $2::numeric,
    updated_at = NOW()
WHERE username = $1
  AND balance >= $2::numeric
RETURNING balance::text`

	var newSenderBalance string
	if err = tx.QueryRowContext(ctx, debitQuery, fromUser, debitAmount.StringFixed(2)).Scan(&newSenderBalance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrInsufficientFunds
			return "", err
		}
		return "", fmt.Errorf("debit sender: %w", err)
	}

	const creditQuery = `
UPDATE accounts
SET balance = balance + $2::numeric,
    updated_at = NOW()
WHERE username = $1`

	if _, err = tx.ExecContext(ctx, creditQuery, toUser, creditAmount.StringFixed(2)); err != nil {
		return "", fmt.Errorf("credit recipient: %w", err)
	}

	const completeQuery = `
UPDATE transfers
SET status = 'COMPLETED',
    updated_at = NOW()
WHERE transfer_id = $1
  AND status = 'PENDING'`

	result, execErr := tx.ExecContext(ctx, completeQuery, transferID)
	if execErr != nil {
		err = fmt.Errorf("complete transfer: %w", execErr)
		return "", err
	}
	rows, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		err = fmt.Errorf("complete transfer rows affected: %w", rowsErr)
		return "", err
	}
	if rows == 0 {
		err = fmt.Errorf("complete transfer %q: %w", transferID, domain.ErrRecordNotFound)
		return "", err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("transfer repository commit tx failed", err, nil)
		return "", fmt.Errorf("commit transfer transaction: %w", err)
	}

	logger.Info("transfer repository apply transfer success", logger.Fields{
		"transferId": transferID,
	})
	return newSenderBalance, nil
}

func (r *TransferRepository) ListByUser(ctx context.Context, username string) ([]domain.Transfer, error) {
	const query = `
SELECT transfer_id,
       from_user,
       to_user,
       amount::text,
       fee::text,
       reference,
       status,
       reason,
       created_at,
       updated_at
FROM transfers
WHERE from_user = $1 OR to_user = $1
ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Transfer, 0)
	for rows.Next() {
		var (
			transfer  domain.Transfer
			reference sql.NullString
			reason    sql.NullString
		)
		if err := rows.Scan(
			&transfer.ID,
			&transfer.FromUser,
			&transfer.ToUser,
			&transfer.Amount,
			&transfer.Fee,
			&reference,
			&transfer.Status,
			&reason,
			&transfer.CreatedAt,
			&transfer.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		if reference.Valid {
			value := reference.String
			transfer.Reference = &value
		}
		if reason.Valid {
			value := reason.String
			transfer.Reason = &value
		}
		out = append(out, transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfers: %w", err)
	}

	return out, nil
}
