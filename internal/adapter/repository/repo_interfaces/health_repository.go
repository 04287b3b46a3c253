package repo_interfaces

import "context"

type HealthRepository interface {
	Check(ctx context.Context) error
}
