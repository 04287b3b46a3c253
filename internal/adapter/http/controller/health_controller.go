package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/corebank/transfer-engine/internal/commons"
	"github.com/gorilla/mux"
)

type HealthChecker interface {
	Check(ctx context.Context) error
}

type HealthController struct {
	checker HealthChecker
}

func NewHealthController(checker HealthChecker) *HealthController {
	return &HealthController{checker: checker}
}

func (c *HealthController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", c.healthz).Methods(http.MethodGet)
}

type healthStatus struct {
	Status string `json:"status"`
}

func (c *HealthController) healthz(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := c.checker.Check(r.Context()); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[healthStatus]("service degraded", err.Error())
		writeJSON(w, http.StatusServiceUnavailable, response)
		logResponse(r, http.StatusServiceUnavailable, response, start)
		return
	}

	response := commons.SuccessResponse("service healthy", healthStatus{Status: "ok"})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
