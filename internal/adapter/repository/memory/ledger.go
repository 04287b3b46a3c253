// Package memory provides an in-process Ledger Store used by tests and local
// runs without Postgres. It honors the same contract as the postgres package,
// including the atomicity of ApplyTransfer and terminal-status immutability.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/corebank/transfer-engine/internal/adapter/repository/repo_interfaces"
	"github.com/corebank/transfer-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// Ledger owns the shared state; the per-entity repositories below are views
// over it, all guarded by one lock so ApplyTransfer is atomic. The one lock
// also serializes transfers over disjoint account pairs; only the postgres
// implementation, with its per-row locks, lets those proceed concurrently.
type Ledger struct {
	mu            sync.RWMutex
	users         map[string]domain.User
	balances      map[string]decimal.Decimal
	transfers     map[string]domain.Transfer
	transferOrder []string
	auditLog      []domain.AuditLogEntry
}

func NewLedger() *Ledger {
	return &Ledger{
		users:     make(map[string]domain.User),
		balances:  make(map[string]decimal.Decimal),
		transfers: make(map[string]domain.Transfer),
	}
}

func (l *Ledger) Users() repo_interfaces.UserRepository         { return &userRepository{l} }
func (l *Ledger) Accounts() repo_interfaces.AccountRepository   { return &accountRepository{l} }
func (l *Ledger) Transfers() repo_interfaces.TransferRepository { return &transferRepository{l} }
func (l *Ledger) Audit() repo_interfaces.AuditRepository        { return &auditRepository{l} }
func (l *Ledger) Health() repo_interfaces.HealthRepository      { return &healthRepository{l} }

// AuditEntries returns a copy of the audit log, oldest first.
func (l *Ledger) AuditEntries() []domain.AuditLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.AuditLogEntry, len(l.auditLog))
	copy(out, l.auditLog)
	return out
}

type userRepository struct{ ledger *Ledger }

func (r *userRepository) Create(ctx context.Context, user domain.User, initialBalance decimal.Decimal) (domain.User, error) {
	_ = ctx
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.users[user.Username]; exists {
		return domain.User{}, domain.ErrDuplicateUsername
	}

	user.CreatedAt = time.Now()
	l.users[user.Username] = user
	l.balances[user.Username] = initialBalance
	return user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	_ = ctx
	l := r.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()

	user, ok := l.users[username]
	if !ok {
		return domain.User{}, domain.ErrRecordNotFound
	}
	return user, nil
}

func (r *userRepository) GetPasswordHashByUsername(ctx context.Context, username string) (string, error) {
	_ = ctx
	l := r.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()

	user, ok := l.users[username]
	if !ok {
		return "", domain.ErrRecordNotFound
	}
	return user.PasswordHash, nil
}

type accountRepository struct{ ledger *Ledger }

func (r *accountRepository) GetBalance(ctx context.Context, username string) (string, error) {
	_ = ctx
	l := r.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()

	balance, ok := l.balances[username]
	if !ok {
		return "", domain.ErrRecordNotFound
	}
	return balance.StringFixed(2), nil
}

type transferRepository struct{ ledger *Ledger }

func (r *transferRepository) Create(ctx context.Context, transfer domain.Transfer) (domain.Transfer, error) {
	_ = ctx
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	transfer.CreatedAt = now
	transfer.UpdatedAt = now
	l.transfers[transfer.ID] = transfer
	l.transferOrder = append(l.transferOrder, transfer.ID)
	return transfer, nil
}

func (r *transferRepository) Get(ctx context.Context, transferID string) (domain.Transfer, error) {
	_ = ctx
	l := r.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()

	transfer, ok := l.transfers[transferID]
	if !ok {
		return domain.Transfer{}, domain.ErrRecordNotFound
	}
	return transfer, nil
}

func (r *transferRepository) UpdateStatus(ctx context.Context, transferID string, status domain.TransferStatus, reason string) error {
	_ = ctx
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	transfer, ok := l.transfers[transferID]
	if !ok || transfer.Status.IsTerminal() {
		return domain.ErrRecordNotFound
	}

	transfer.Status = status
	if reason != "" {
		transfer.Reason = &reason
	}
	transfer.UpdatedAt = time.Now()
	l.transfers[transferID] = transfer
	return nil
}

func (r *transferRepository) ApplyTransfer(ctx context.Context, fromUser, toUser string, debitAmount, creditAmount decimal.Decimal, transferID string) (string, error) {
	_ = ctx
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	senderBalance, ok := l.balances[fromUser]
	if !ok {
		return "", domain.ErrRecordNotFound
	}
	recipientBalance, ok := l.balances[toUser]
	if !ok {
		return "", domain.ErrRecordNotFound
	}
	transfer, ok := l.transfers[transferID]
	if !ok || transfer.Status != domain.TransferStatusPending {
		return "", domain.ErrRecordNotFound
	}

	if senderBalance.LessThan(debitAmount) {
		return "", domain.ErrInsufficientFunds
	}

	l.balances[fromUser] = senderBalance.Sub(debitAmount)
	l.balances[toUser] = recipientBalance.Add(creditAmount)

	transfer.Status = domain.TransferStatusCompleted
	transfer.UpdatedAt = time.Now()
	l.transfers[transferID] = transfer

	return l.balances[fromUser].StringFixed(2), nil
}

func (r *transferRepository) ListByUser(ctx context.Context, username string) ([]domain.Transfer, error) {
	_ = ctx
	l := r.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()

	// Newest first.
	out := make([]domain.Transfer, 0)
	for i := len(l.transferOrder) - 1; i >= 0; i-- {
		transfer := l.transfers[l.transferOrder[i]]
		if transfer.FromUser == username || transfer.ToUser == username {
			out = append(out, transfer)
		}
	}
	return out, nil
}

type auditRepository struct{ ledger *Ledger }

func (r *auditRepository) Append(ctx context.Context, entry domain.AuditLogEntry) error {
	_ = ctx
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.LogID = int64(len(l.auditLog) + 1)
	entry.Timestamp = time.Now()
	l.auditLog = append(l.auditLog, entry)
	return nil
}

type healthRepository struct{ ledger *Ledger }

func (r *healthRepository) Check(ctx context.Context) error {
	_ = ctx
	return nil
}
