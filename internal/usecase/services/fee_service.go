package services

import (
	"context"

	"github.com/corebank/transfer-engine/internal/adapter/http/models"
	"github.com/corebank/transfer-engine/internal/commons"
	"github.com/corebank/transfer-engine/internal/domain"
	"github.com/corebank/transfer-engine/internal/logger"
	"github.com/shopspring/decimal"
)

// feeTier is one bracket of the fee schedule. Brackets are inclusive on the
// upper bound; a nil upperBound means the bracket is open-ended.
type feeTier struct {
	upperBound *decimal.Decimal
	rate       decimal.Decimal
	cap        *decimal.Decimal
}

type FeeService struct {
	tiers []feeTier
}

func NewFeeService() *FeeService {
	return &FeeService{tiers: defaultFeeTiers()}
}

func defaultFeeTiers() []feeTier {
	return []feeTier{
		{upperBound: money("2000.00"), rate: decimal.Zero},
		{upperBound: money("10000.00"), rate: rate("0.0025"), cap: money("20.00")},
		{upperBound: money("20000.00"), rate: rate("0.0020"), cap: money("25.00")},
		{upperBound: money("50000.00"), rate: rate("0.00125"), cap: money("40.00")},
		{upperBound: money("100000.00"), rate: rate("0.0008"), cap: money("50.00")},
		{rate: rate("0.0005"), cap: money("100.00")},
	}
}

// Fee computes the tiered transfer fee for a positive amount with at most two
// decimal places. The raw percentage is rounded once, half up, to two decimal
// places before the per-tier cap is applied.
func (s *FeeService) Fee(amount decimal.Decimal) (decimal.Decimal, error) {
	if err := validateAmount(amount); err != nil {
		return decimal.Zero, err
	}

	for _, tier := range s.tiers {
		if tier.upperBound != nil && amount.GreaterThan(*tier.upperBound) {
			continue
		}

		fee := amount.Mul(tier.rate).Round(2)
		if tier.cap != nil && fee.GreaterThan(*tier.cap) {
			fee = *tier.cap
		}
		return fee, nil
	}

	// The last tier is open-ended, so every valid amount lands in a bracket.
	return decimal.Zero, nil
}

func (s *FeeService) GetFeeQuote(ctx context.Context, amount decimal.Decimal) (commons.Response[models.FeeQuoteResponse], error) {
	logger.Info("fee service quote request", logger.Fields{
		"amount": amount.String(),
	})

	_ = ctx
	fee, err := s.Fee(amount)
	if err != nil {
		logger.Error("fee service quote failed", err, nil)
		return commons.ErrorResponse[models.FeeQuoteResponse]("validation failed", err.Error()), err
	}

	response := models.FeeQuoteResponse{
		Amount: amount.StringFixed(2),
		Fee:    fee.StringFixed(2),
		Total:  amount.Add(fee).StringFixed(2),
	}

	return commons.SuccessResponse("fee quote computed successfully", response), nil
}

// validateAmount enforces the shared monetary-amount rule: strictly positive
// and at most two decimal places.
func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return domain.ErrInvalidAmount
	}
	return nil
}

func money(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func rate(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}
