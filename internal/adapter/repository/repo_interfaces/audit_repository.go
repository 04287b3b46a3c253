package repo_interfaces

import (
	"context"

	"github.com/corebank/transfer-engine/internal/domain"
)

type AuditRepository interface {
	Append(ctx context.Context, entry domain.AuditLogEntry) error
}
