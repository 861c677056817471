package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"tswtrack/internal/service"
	"tswtrack/internal/transport/rest/handler"
	"tswtrack/internal/transport/rest/middleware"
	"tswtrack/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	CheckInService *service.CheckInService
	InsightService *service.InsightService
	WSHub          *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	checkinHandler := handler.NewCheckInHandler(c.CheckInService)
	insightHandler := handler.NewInsightHandler(c.InsightService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/insights", wsHandler.OwnerWS).Methods("GET")
	v1.HandleFunc("/ws/insights/shared", wsHandler.ViewerWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Owner routes (require owner auth)
	ownerRoutes := v1.NewRoute().Subrouter()
	ownerRoutes.Use(authMW.RequireOwner)

	ownerRoutes.HandleFunc("/checkins", checkinHandler.Create).Methods("POST", "OPTIONS")
	ownerRoutes.HandleFunc("/checkins", checkinHandler.List).Methods("GET", "OPTIONS")
	ownerRoutes.HandleFunc("/checkins/{id}", checkinHandler.Get).Methods("GET", "OPTIONS")
	ownerRoutes.HandleFunc("/checkins/{id}", checkinHandler.Update).Methods("PUT", "OPTIONS")
	ownerRoutes.HandleFunc("/checkins/{id}", checkinHandler.Delete).Methods("DELETE", "OPTIONS")
	ownerRoutes.HandleFunc("/share", authHandler.CreateShareToken).Methods("POST", "OPTIONS")

	// Insight routes (owner or read-only share token)
	insightRoutes := v1.NewRoute().Subrouter()
	insightRoutes.Use(authMW.RequireInsightAccess)

	insightRoutes.HandleFunc("/insights/triggers", insightHandler.Triggers).Methods("GET", "OPTIONS")
	insightRoutes.HandleFunc("/insights/treatments", insightHandler.Treatments).Methods("GET", "OPTIONS")
	insightRoutes.HandleFunc("/insights/foods", insightHandler.Foods).Methods("GET", "OPTIONS")
	insightRoutes.HandleFunc("/insights/products", insightHandler.Products).Methods("GET", "OPTIONS")
	insightRoutes.HandleFunc("/insights/summary", insightHandler.Summary).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
