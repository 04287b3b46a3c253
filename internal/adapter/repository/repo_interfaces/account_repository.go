package repo_interfaces

import "context"

type AccountRepository interface {
	// GetBalance returns the balance as an exact-decimal string.
	GetBalance(ctx context.Context, username string) (string, error)
}
