package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/corebank/transfer-engine/internal/adapter/http/models"
	"github.com/corebank/transfer-engine/internal/adapter/repository/repo_interfaces"
	"github.com/corebank/transfer-engine/internal/commons"
	"github.com/corebank/transfer-engine/internal/domain"
	"github.com/corebank/transfer-engine/internal/logger"
	"github.com/corebank/transfer-engine/internal/usecase/service_interfaces"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const insufficientFundsReason = "Insufficient funds"

type TransferService struct {
	transferRepo repo_interfaces.TransferRepository
	accountRepo  repo_interfaces.AccountRepository
	userRepo     repo_interfaces.UserRepository
	auditRepo    repo_interfaces.AuditRepository
	feeService   service_interfaces.FeeService
}

func NewTransferService(
	transferRepo repo_interfaces.TransferRepository,
	accountRepo repo_interfaces.AccountRepository,
	userRepo repo_interfaces.UserRepository,
	auditRepo repo_interfaces.AuditRepository,
	feeService service_interfaces.FeeService,
) *TransferService {
	return &TransferService{
		transferRepo: transferRepo,
		accountRepo:  accountRepo,
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		feeService:   feeService,
	}
}

func (s *TransferService) SubmitTransfer(ctx context.Context, actingUsername string, req models.SubmitTransferRequest) (commons.Response[models.SubmitTransferResponse], error) {
	logger.Info("transfer service submit request", logger.Fields{
		"fromUser": actingUsername,
		"payload":  logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.SubmitTransferResponse]("validation failed", err.Error()), err
	}

	recipient := strings.TrimSpace(req.Recipient)

	if _, err := s.userRepo.GetByUsername(ctx, recipient); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.SubmitTransferResponse]("recipient account not found"), domain.ErrUnknownRecipient
		}
		logger.Error("transfer service recipient lookup failed", err, logger.Fields{"toUser": recipient})
		return commons.ErrorResponse[models.SubmitTransferResponse]("failed to process transfer", "Unable to process transfer right now"), fmt.Errorf("recipient lookup: %w", domain.ErrStoreUnavailable)
	}

	if recipient == actingUsername {
		return commons.ErrorResponse[models.SubmitTransferResponse]("recipient cannot be the sender"), domain.ErrSelfTransfer
	}

	if err := validateAmount(req.Amount); err != nil {
		return commons.ErrorResponse[models.SubmitTransferResponse]("invalid amount", err.Error()), err
	}
	amount := req.Amount.Round(2)

	fee, err := s.feeService.Fee(amount)
	if err != nil {
		return commons.ErrorResponse[models.SubmitTransferResponse]("invalid amount", err.Error()), err
	}
	total := amount.Add(fee)

	balanceText, err := s.accountRepo.GetBalance(ctx, actingUsername)
	if err != nil {
		logger.Error("transfer service balance lookup failed", err, logger.Fields{"fromUser": actingUsername})
		return commons.ErrorResponse[models.SubmitTransferResponse]("failed to process transfer", "Unable to process transfer right now"), fmt.Errorf("sender balance lookup: %w", domain.ErrStoreUnavailable)
	}
	balance, err := decimal.NewFromString(strings.TrimSpace(balanceText))
	if err != nil {
		logger.Error("transfer service balance parse failed", err, logger.Fields{"fromUser": actingUsername})
		return commons.ErrorResponse[models.SubmitTransferResponse]("failed to process transfer", "Unable to process transfer right now"), fmt.Errorf("parse sender balance: %w", err)
	}

	transfer := domain.Transfer{
		ID:        newTransferID(),
		FromUser:  actingUsername,
		ToUser:    recipient,
		Amount:    amount.StringFixed(2),
		Fee:       fee.StringFixed(2),
		Reference: optionalString(req.Reference),
	}

	if balance.LessThan(total) {
		transfer.Status = domain.TransferStatusFailed
		transfer.Reason = optionalString(insufficientFundsReason)

		created, err := s.transferRepo.Create(ctx, transfer)
		if err != nil {
			logger.Error("transfer service record failed transfer failed", err, logger.Fields{"transferId": transfer.ID})
			return commons.ErrorResponse[models.SubmitTransferResponse]("failed to process transfer", "Unable to process transfer right now"), fmt.Errorf("create transfer record: %w", domain.ErrStoreUnavailable)
		}

		s.audit(ctx, domain.AuditTransferFailed, actingUsername,
			fmt.Sprintf("Transfer %s to %s for %s failed: insufficient funds", created.ID, recipient, transfer.Amount))

		response := models.SubmitTransferResponse{
			TransferID: created.ID,
			Fee:        transfer.Fee,
			NewBalance: balance.StringFixed(2),
			Status:     string(domain.TransferStatusFailed),
			Reason:     insufficientFundsReason,
		}
		return commons.SuccessResponse("transfer could not be completed", response), nil
	}

	transfer.Status = domain.TransferStatusPending
	created, err := s.transferRepo.Create(ctx, transfer)
	if err != nil {
		logger.Error("transfer service create transfer failed", err, logger.Fields{"transferId": transfer.ID})
		return commons.ErrorResponse[models.SubmitTransferResponse]("failed to process transfer", "Unable to process transfer right now"), fmt.Errorf("create transfer record: %w", domain.ErrStoreUnavailable)
	}

	newBalance, err := s.transferRepo.ApplyTransfer(ctx, actingUsername, recipient, total, amount, created.ID)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			// A concurrent transfer drained the balance between the check and
			// the apply. Record the business outcome, not a system error.
			if updateErr := s.transferRepo.UpdateStatus(ctx, created.ID, domain.TransferStatusFailed, insufficientFundsReason); updateErr != nil {
				logger.Error("transfer service mark failed transfer failed", updateErr, logger.Fields{"transferId": created.ID})
			}
			s.audit(ctx, domain.AuditTransferFailed, actingUsername,
				fmt.Sprintf("Transfer %s to %s for %s failed: insufficient funds", created.ID, recipient, transfer.Amount))

			response := models.SubmitTransferResponse{
				TransferID: created.ID,
				Fee:        transfer.Fee,
				NewBalance: s.currentBalance(ctx, actingUsername, balance),
				Status:     string(domain.TransferStatusFailed),
				Reason:     insufficientFundsReason,
			}
			return commons.SuccessResponse("transfer could not be completed", response), nil
		}

		logger.Error("transfer service apply transfer failed", err, logger.Fields{"transferId": created.ID})
		return commons.ErrorResponse[models.SubmitTransferResponse]("failed to process transfer", "Unable to complete transfer posting"), fmt.Errorf("apply transfer: %w", domain.ErrStoreUnavailable)
	}

	s.audit(ctx, domain.AuditTransferCompleted, actingUsername,
		fmt.Sprintf("Transfer %s to %s for %s (fee %s) completed", created.ID, recipient, transfer.Amount, transfer.Fee))

	logger.Info("transfer service submit success", logger.Fields{
		"transferId": created.ID,
		"fromUser":   actingUsername,
		"toUser":     recipient,
		"amount":     transfer.Amount,
		"fee":        transfer.Fee,
	})

	response := models.SubmitTransferResponse{
		TransferID: created.ID,
		Fee:        transfer.Fee,
		NewBalance: newBalance,
		Status:     string(domain.TransferStatusCompleted),
	}
	return commons.SuccessResponse("transfer completed", response), nil
}

func (s *TransferService) GetTransferStatus(ctx context.Context, actingUsername string, transferID string) (commons.Response[models.GetTransferResponse], error) {
	logger.Info("transfer service status request", logger.Fields{
		"username":   actingUsername,
		"transferId": transferID,
	})

	transferID = strings.TrimSpace(transferID)
	if transferID == "" {
		err := fmt.Errorf("transferId is required")
		return commons.ErrorResponse[models.GetTransferResponse]("validation failed", err.Error()), err
	}

	transfer, err := s.transferRepo.Get(ctx, transferID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.GetTransferResponse]("transfer not found"), domain.ErrTransferNotFound
		}
		logger.Error("transfer service status lookup failed", err, logger.Fields{"transferId": transferID})
		return commons.ErrorResponse[models.GetTransferResponse]("failed to get transfer", "Unable to fetch transfer right now"), fmt.Errorf("get transfer: %w", domain.ErrStoreUnavailable)
	}

	if transfer.FromUser != actingUsername && transfer.ToUser != actingUsername {
		return commons.ErrorResponse[models.GetTransferResponse]("not a party to this transfer"), domain.ErrForbidden
	}

	return commons.SuccessResponse("transfer fetched successfully", mapTransferToResponse(transfer)), nil
}

func (s *TransferService) ListTransfers(ctx context.Context, actingUsername string) (commons.Response[models.ListTransfersResponse], error) {
	logger.Info("transfer service list request", logger.Fields{
		"username": actingUsername,
	})

	transfers, err := s.transferRepo.ListByUser(ctx, actingUsername)
	if err != nil {
		logger.Error("transfer service list failed", err, logger.Fields{"username": actingUsername})
		return commons.ErrorResponse[models.ListTransfersResponse]("failed to list transfers", "Unable to fetch transfers right now"), fmt.Errorf("list transfers: %w", domain.ErrStoreUnavailable)
	}

	response := models.ListTransfersResponse{
		Transfers: make([]models.GetTransferResponse, 0, len(transfers)),
	}
	for _, transfer := range transfers {
		response.Transfers = append(response.Transfers, mapTransferToResponse(transfer))
	}

	return commons.SuccessResponse("transfers fetched successfully", response), nil
}

// audit is fire-and-forget: a failed audit write never fails the operation it
// records.
func (s *TransferService) audit(ctx context.Context, operation, username, details string) {
	if err := s.auditRepo.Append(ctx, domain.AuditLogEntry{
		Operation: operation,
		Username:  username,
		Details:   details,
	}); err != nil {
		logger.Error("transfer service append audit failed", err, logger.Fields{
			"operation": operation,
			"username":  username,
		})
	}
}

func (s *TransferService) currentBalance(ctx context.Context, username string, lastKnown decimal.Decimal) string {
	balanceText, err := s.accountRepo.GetBalance(ctx, username)
	if err != nil {
		return lastKnown.StringFixed(2)
	}
	balance, err := decimal.NewFromString(strings.TrimSpace(balanceText))
	if err != nil {
		return lastKnown.StringFixed(2)
	}
	return balance.StringFixed(2)
}

func mapTransferToResponse(transfer domain.Transfer) models.GetTransferResponse {
	return models.GetTransferResponse{
		TransferID: transfer.ID,
		FromUser:   transfer.FromUser,
		ToUser:     transfer.ToUser,
		Amount:     transfer.Amount,
		Fee:        transfer.Fee,
		Reference:  valueOrEmpty(transfer.Reference),
		Status:     string(transfer.Status),
		Reason:     valueOrEmpty(transfer.Reason),
		CreatedAt:  transfer.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  transfer.UpdatedAt.Format(time.RFC3339),
	}
}

func newTransferID() string {
	id := uuid.New()
	return "tr_" + hex.EncodeToString(id[:6])
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func valueOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
