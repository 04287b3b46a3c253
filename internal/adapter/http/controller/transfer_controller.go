package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/corebank/transfer-engine/internal/adapter/http/middleware"
	"github.com/corebank/transfer-engine/internal/adapter/http/models"
	"github.com/corebank/transfer-engine/internal/commons"
	"github.com/corebank/transfer-engine/internal/logger"
	"github.com/gorilla/mux"
)

type TransferService interface {
	SubmitTransfer(ctx context.Context, actingUsername string, req models.SubmitTransferRequest) (commons.Response[models.SubmitTransferResponse], error)
	GetTransferStatus(ctx context.Context, actingUsername string, transferID string) (commons.Response[models.GetTransferResponse], error)
	ListTransfers(ctx context.Context, actingUsername string) (commons.Response[models.ListTransfersResponse], error)
}

type TransferController struct {
	service TransferService
}

func NewTransferController(service TransferService) *TransferController {
	return &TransferController{service: service}
}

func (c *TransferController) RegisterRoutes(router *mux.Router, authMiddleware func(http.Handler) http.Handler) {
	router.Handle("/transfers", authMiddleware(http.HandlerFunc(c.submitTransfer))).Methods(http.MethodPost)
	router.Handle("/transfers", authMiddleware(http.HandlerFunc(c.listTransfers))).Methods(http.MethodGet)
	router.Handle("/transfers/{transferId}", authMiddleware(http.HandlerFunc(c.getTransferStatus))).Methods(http.MethodGet)
}

func (c *TransferController) submitTransfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	username, _ := middleware.UsernameFromContext(r.Context())

	var req models.SubmitTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.SubmitTransferResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.SubmitTransfer(r.Context(), username, req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err, response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	if response.Data != nil {
		observeTransferOutcome(response.Data.Status)
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *TransferController) getTransferStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	username, _ := middleware.UsernameFromContext(r.Context())
	transferID := mux.Vars(r)["transferId"]

	response, err := c.service.GetTransferStatus(r.Context(), username, transferID)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message, "transferId": transferID})
		status := statusForError(err, response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *TransferController) listTransfers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	username, _ := middleware.UsernameFromContext(r.Context())

	response, err := c.service.ListTransfers(r.Context(), username)
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
