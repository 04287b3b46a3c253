package models

import (
	"errors"
	"strings"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, "username is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type LoginResponse struct {
	Token string `json:"token"`
}

type LogoutResponse struct {
	Username string `json:"username"`
}
