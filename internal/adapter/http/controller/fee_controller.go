package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/corebank/transfer-engine/internal/adapter/http/models"
	"github.com/corebank/transfer-engine/internal/commons"
	"github.com/corebank/transfer-engine/internal/logger"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type FeeService interface {
	GetFeeQuote(ctx context.Context, amount decimal.Decimal) (commons.Response[models.FeeQuoteResponse], error)
}

type FeeController struct {
	service FeeService
}

func NewFeeController(service FeeService) *FeeController {
	return &FeeController{service: service}
}

func (c *FeeController) RegisterRoutes(router *mux.Router, authMiddleware func(http.Handler) http.Handler) {
	router.Handle("/fees", authMiddleware(http.HandlerFunc(c.getFeeQuote))).Methods(http.MethodGet)
}

func (c *FeeController) getFeeQuote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	raw := r.URL.Query().Get("amount")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		logError(r, err, logger.Fields{"amount": raw})
		response := commons.ErrorResponse[models.FeeQuoteResponse]("validation failed", "amount must be a decimal number")
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.service.GetFeeQuote(r.Context(), amount)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err, response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
