package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type AuthRouteRegistrar interface {
	RegisterRoutes(router *mux.Router, authMiddleware func(http.Handler) http.Handler)
}

type AccountRouteRegistrar interface {
	RegisterRoutes(router *mux.Router, authMiddleware func(http.Handler) http.Handler)
}

type TransferRouteRegistrar interface {
	RegisterRoutes(router *mux.Router, authMiddleware func(http.Handler) http.Handler)
}

type FeeRouteRegistrar interface {
	RegisterRoutes(router *mux.Router, authMiddleware func(http.Handler) http.Handler)
}

type UserRouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

type HealthRouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

func New(
	authController AuthRouteRegistrar,
	accountController AccountRouteRegistrar,
	transferController TransferRouteRegistrar,
	feeController FeeRouteRegistrar,
	userController UserRouteRegistrar,
	healthController HealthRouteRegistrar,
	authMiddleware func(http.Handler) http.Handler,
) *mux.Router {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	if authController != nil {
		authController.RegisterRoutes(router, authMiddleware)
	}
	if accountController != nil {
		accountController.RegisterRoutes(router, authMiddleware)
	}
	if transferController != nil {
		transferController.RegisterRoutes(router, authMiddleware)
	}
	if feeController != nil {
		feeController.RegisterRoutes(router, authMiddleware)
	}
	if userController != nil {
		userController.RegisterRoutes(router)
	}
	if healthController != nil {
		healthController.RegisterRoutes(router)
	}

	return router
}
