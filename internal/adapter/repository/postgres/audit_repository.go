package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/corebank/transfer-engine/internal/domain"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, entry domain.AuditLogEntry) error {
	const query = `
INSERT INTO audit_logs (operation, username, details)
VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, entry.Operation, entry.Username, entry.Details); err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}

	return nil
}
