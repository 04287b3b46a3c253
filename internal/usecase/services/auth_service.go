package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/corebank/transfer-engine/internal/adapter/http/models"
	"github.com/corebank/transfer-engine/internal/adapter/repository/repo_interfaces"
	"github.com/corebank/transfer-engine/internal/commons"
	"github.com/corebank/transfer-engine/internal/domain"
	"github.com/corebank/transfer-engine/internal/logger"
	"github.com/corebank/transfer-engine/internal/usecase/service_interfaces"
	"golang.org/x/crypto/bcrypt"
)

// invalidCredentialsMessage is shared by the unknown-user and wrong-password
// paths so the response cannot be used to enumerate usernames.
const invalidCredentialsMessage = "invalid username or password"

type AuthService struct {
	userRepo  repo_interfaces.UserRepository
	auditRepo repo_interfaces.AuditRepository
	sessions  service_interfaces.SessionService
}

func NewAuthService(
	userRepo repo_interfaces.UserRepository,
	auditRepo repo_interfaces.AuditRepository,
	sessions service_interfaces.SessionService,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		sessions:  sessions,
	}
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error) {
	logger.Info("auth service login request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.LoginResponse]("validation failed", err.Error()), err
	}

	username := strings.TrimSpace(req.Username)

	passwordHash, err := s.userRepo.GetPasswordHashByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			s.audit(ctx, domain.AuditLoginFailed, username, "Unknown username")
			return commons.ErrorResponse[models.LoginResponse](invalidCredentialsMessage), domain.ErrInvalidCredentials
		}
		logger.Error("auth service credential lookup failed", err, logger.Fields{"username": username})
		return commons.ErrorResponse[models.LoginResponse]("failed to login", "Unable to login right now"), fmt.Errorf("credential lookup: %w", domain.ErrStoreUnavailable)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.audit(ctx, domain.AuditLoginFailed, username, "Password mismatch")
			return commons.ErrorResponse[models.LoginResponse](invalidCredentialsMessage), domain.ErrInvalidCredentials
		}
		wrappedErr := fmt.Errorf("verify credential: %w", err)
		logger.Error("auth service credential compare failed", wrappedErr, logger.Fields{"username": username})
		return commons.ErrorResponse[models.LoginResponse]("failed to login", "Unable to login right now"), wrappedErr
	}

	token, err := s.sessions.Create(username)
	if err != nil {
		logger.Error("auth service create session failed", err, logger.Fields{"username": username})
		return commons.ErrorResponse[models.LoginResponse]("failed to login", "Unable to login right now"), err
	}

	s.audit(ctx, domain.AuditLoginSuccess, username, "Login successful")

	logger.Info("auth service login success", logger.Fields{
		"username": username,
	})

	return commons.SuccessResponse("login successful", models.LoginResponse{Token: token}), nil
}

func (s *AuthService) Logout(ctx context.Context, token string, username string) (commons.Response[models.LogoutResponse], error) {
	s.sessions.Invalidate(token)
	s.audit(ctx, domain.AuditLogout, username, "Logout")

	logger.Info("auth service logout success", logger.Fields{
		"username": username,
	})

	return commons.SuccessResponse("logout successful", models.LogoutResponse{Username: username}), nil
}

func (s *AuthService) audit(ctx context.Context, operation, username, details string) {
	if err := s.auditRepo.Append(ctx, domain.AuditLogEntry{
		Operation: operation,
		Username:  username,
		Details:   details,
	}); err != nil {
		logger.Error("auth service append audit failed", err, logger.Fields{
			"operation": operation,
			"username":  username,
		})
	}
}
