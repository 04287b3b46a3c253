package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/corebank/transfer-engine/internal/adapter/http/models"
	"github.com/corebank/transfer-engine/internal/adapter/repository/repo_interfaces"
	"github.com/corebank/transfer-engine/internal/commons"
	"github.com/corebank/transfer-engine/internal/domain"
	"github.com/corebank/transfer-engine/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo  repo_interfaces.UserRepository
	auditRepo repo_interfaces.AuditRepository
}

func NewUserService(userRepo repo_interfaces.UserRepository, auditRepo repo_interfaces.AuditRepository) *UserService {
	return &UserService{userRepo: userRepo, auditRepo: auditRepo}
}

func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (commons.Response[models.CreateUserResponse], error) {
	logger.Info("user service create user request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("user service create user validation failed", err, nil)
		return commons.ErrorResponse[models.CreateUserResponse]("validation failed", err.Error()), err
	}

	username := strings.TrimSpace(req.Username)

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		logger.Error("user service hash password failed", err, nil)
		return commons.ErrorResponse[models.CreateUserResponse]("failed to create user", "failed to hash password"), err
	}

	var email *string
	if trimmed := strings.TrimSpace(req.Email); trimmed != "" {
		email = &trimmed
	}

	user := domain.User{
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
	}

	created, err := s.userRepo.Create(ctx, user, req.InitialDeposit.Round(2))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return commons.ErrorResponse[models.CreateUserResponse]("username already exists"), err
		}
		logger.Error("user service create user repository failed", err, logger.Fields{"username": username})
		return commons.ErrorResponse[models.CreateUserResponse]("failed to create user", "Unable to create user right now"), fmt.Errorf("create user: %w", domain.ErrStoreUnavailable)
	}

	s.audit(ctx, domain.AuditUserCreated, username, fmt.Sprintf("Email: %s", valueOrEmpty(email)))

	response := models.CreateUserResponse{
		Username:  created.Username,
		Email:     valueOrEmpty(created.Email),
		Balance:   req.InitialDeposit.StringFixed(2),
		CreatedAt: created.CreatedAt.Format(time.RFC3339),
	}

	logger.Info("user service create user success", logger.Fields{
		"username": response.Username,
	})

	return commons.SuccessResponse("user created successfully", response), nil
}

func (s *UserService) audit(ctx context.Context, operation, username, details string) {
	if err := s.auditRepo.Append(ctx, domain.AuditLogEntry{
		Operation: operation,
		Username:  username,
		Details:   details,
	}); err != nil {
		logger.Error("user service append audit failed", err, logger.Fields{
			"operation": operation,
			"username":  username,
		})
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hashed), nil
}
