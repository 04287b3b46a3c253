package domain

import "time"

type User struct {
	Username     string
	PasswordHash string
	Email        *string
	CreatedAt    time.Time
}
