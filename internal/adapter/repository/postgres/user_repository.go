package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/corebank/transfer-engine/internal/domain"
	"github.com/corebank/transfer-engine/internal/logger"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and its account row in one transaction.
func (r *UserRepository) Create(ctx context.Context, user domain.User, initialBalance decimal.Decimal) (domain.User, error) {
	logger.Info("user repository create", logger.Fields{
		"username": user.Username,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, fmt.Errorf("begin create user transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertUser = `
INSERT INTO users (username, password_hash, email)
VALUES ($1, $2, $3)
RETURNING created_at`

	var createdAt time.Time
	if err = tx.QueryRowContext(ctx, insertUser, user.Username, user.PasswordHash, user.Email).Scan(&createdAt); err != nil {
		if isUniqueViolation(err) {
			err = domain.ErrDuplicateUsername
			return domain.User{}, err
		}
		logger.Error("user repository create failed", err, logger.Fields{"username": user.Username})
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	const insertAccount = `
INSERT INTO accounts (username, balance)
VALUES ($1, $2::numeric)`

	if _, err = tx.ExecContext(ctx, insertAccount, user.Username, initialBalance.StringFixed(2)); err != nil {
		logger.Error("user repository create account failed", err, logger.Fields{"username": user.Username})
		return domain.User{}, fmt.Errorf("create account: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return domain.User{}, fmt.Errorf("commit create user transaction: %w", err)
	}

	user.CreatedAt = createdAt

	logger.Info("user repository create success", logger.Fields{
		"username": user.Username,
	})
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	const query = `
SELECT username, password_hash, email, created_at
FROM users
WHERE username = $1`

	var (
		user  domain.User
		email sql.NullString
	)

	if err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username,
		&user.PasswordHash,
		&email,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrRecordNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}

	if email.Valid {
		value := email.String
		user.Email = &value
	}

	return user, nil
}

func (r *UserRepository) GetPasswordHashByUsername(ctx context.Context, username string) (string, error) {
	const query = `
SELECT password_hash
FROM users
WHERE username = $1`

	var passwordHash string
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrRecordNotFound
		}
		return "", fmt.Errorf("get password hash: %w", err)
	}

	return passwordHash, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}
