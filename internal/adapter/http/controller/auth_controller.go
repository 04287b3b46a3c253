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

type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error)
	Logout(ctx context.Context, token string, username string) (commons.Response[models.LogoutResponse], error)
}

type AuthController struct {
	service AuthService
}

func NewAuthController(service AuthService) *AuthController {
	return &AuthController{service: service}
}

func (c *AuthController) RegisterRoutes(router *mux.Router, authMiddleware func(http.Handler) http.Handler) {
	router.HandleFunc("/login", c.login).Methods(http.MethodPost)
	router.Handle("/logout", authMiddleware(http.HandlerFunc(c.logout))).Methods(http.MethodPost)
}

func (c *AuthController) login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.LoginResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Login(r.Context(), req)
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

func (c *AuthController) logout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	username, _ := middleware.UsernameFromContext(r.Context())
	token, _ := middleware.TokenFromContext(r.Context())

	response, err := c.service.Logout(r.Context(), token, username)
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
