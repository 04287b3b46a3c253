package domain

import "time"

const (
	AuditLoginSuccess      = "LOGIN_SUCCESS"
	AuditLoginFailed       = "LOGIN_FAILED"
	AuditLogout            = "LOGOUT"
	AuditUserCreated       = "USER_CREATED"
	AuditTransferCompleted = "TRANSFER_COMPLETED"
	AuditTransferFailed    = "TRANSFER_FAILED"
)

type AuditLogEntry struct {
	LogID     int64
	Operation string
	Username  string
	Details   string
	Timestamp time.Time
}
