package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	entitlementHandler *EntitlementHandler,
	downgradeHandler *DowngradeHandler,
	authMiddleware func(http.Handler) http.Handler,
) http.Handler {
	router := mux.NewRouter()

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"fridgehero-server"}`))
	}).Methods("GET")

	// Protected routes (require authentication)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware)

	// Entitlement routes (protected)
	protected.HandleFunc("/entitlements", entitlementHandler.GetEntitlements).Methods("GET")
	protected.HandleFunc("/entitlements/refresh", entitlementHandler.Refresh).Methods("POST")
	protected.HandleFunc("/entitlements/foreground", entitlementHandler.Foreground).Methods("POST")
	protected.HandleFunc("/entitlements/logout", entitlementHandler.Logout).Methods("POST")
	protected.HandleFunc("/entitlements/features/{feature}", entitlementHandler.CheckFeature).Methods("GET")
	protected.HandleFunc("/entitlements/item-limit", entitlementHandler.CheckItemLimit).Methods("GET")
	protected.HandleFunc("/entitlements/households/allowance", entitlementHandler.HouseholdAllowance).Methods("GET")

	// Downgrade routes (protected)
	protected.HandleFunc("/downgrade/pending", downgradeHandler.GetPending).Methods("GET")
	protected.HandleFunc("/downgrade/choose", downgradeHandler.Choose).Methods("POST")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:19006", // Expo web dev server
			"http://localhost:8081",  // Metro bundler
			"http://localhost:3000",  // Web app dev port
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
		},
		ExposedHeaders: []string{
			"Link",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
