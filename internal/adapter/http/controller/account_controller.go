package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/corebank/transfer-engine/internal/adapter/http/middleware"
	"github.com/corebank/transfer-engine/internal/adapter/http/models"
	"github.com/corebank/transfer-engine/internal/commons"
	"github.com/corebank/transfer-engine/internal/logger"
	"github.com/gorilla/mux"
)

type AccountService interface {
	GetBalance(ctx context.Context, username string) (commons.Response[models.GetBalanceResponse], error)
}

type AccountController struct {
	service AccountService
}

func NewAccountController(service AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(router *mux.Router, authMiddleware func(http.Handler) http.Handler) {
	router.Handle("/balance", authMiddleware(http.HandlerFunc(c.getBalance))).Methods(http.MethodGet)
}

func (c *AccountController) getBalance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	username, _ := middleware.UsernameFromContext(r.Context())

	response, err := c.service.GetBalance(r.Context(), username)
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
