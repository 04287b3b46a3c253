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
	"github.com/shopspring/decimal"
)

type AccountService struct {
	accountRepo repo_interfaces.AccountRepository
}

func NewAccountService(accountRepo repo_interfaces.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

func (s *AccountService) GetBalance(ctx context.Context, username string) (commons.Response[models.GetBalanceResponse], error) {
	logger.Info("account service balance request", logger.Fields{
		"username": username,
	})

	balanceText, err := s.accountRepo.GetBalance(ctx, username)
	if err != nil {
		logger.Error("account service balance lookup failed", err, logger.Fields{"username": username})
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.GetBalanceResponse]("account not found"), err
		}
		return commons.ErrorResponse[models.GetBalanceResponse]("failed to get balance", "Unable to fetch balance right now"), fmt.Errorf("balance lookup: %w", domain.ErrStoreUnavailable)
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(balanceText))
	if err != nil {
		logger.Error("account service balance parse failed", err, logger.Fields{"username": username})
		return commons.ErrorResponse[models.GetBalanceResponse]("failed to get balance", "Unable to fetch balance right now"), fmt.Errorf("parse balance: %w", err)
	}

	response := models.GetBalanceResponse{
		Username: username,
		Balance:  balance.StringFixed(2),
	}

	return commons.SuccessResponse("balance fetched successfully", response), nil
}
