package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/corebank/transfer-engine/internal/adapter/http/models"
	"github.com/corebank/transfer-engine/internal/commons"
	"github.com/corebank/transfer-engine/internal/logger"
	"github.com/gorilla/mux"
)

type UserService interface {
	CreateUser(ctx context.Context, req models.CreateUserRequest) (commons.Response[models.CreateUserResponse], error)
}

type UserController struct {
	service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{service: service}
}

func (c *UserController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users", c.createUser).Methods(http.MethodPost)
}

func (c *UserController) createUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.CreateUserResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateUser(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err, response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}
