package api

import (
	"net/http"
	"sandbox-delivery-service/internal/api/handlers"
	"sandbox-delivery-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(store *services.SandboxStore) http.Handler {
	mux := http.NewServeMux()

	deliveries := handlers.NewSandboxDeliveryHandler(store)

	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("POST /sandbox-deliveries", deliveries.Create)
	mux.HandleFunc("GET /sandbox-deliveries", deliveries.List)
	mux.HandleFunc("PUT /sandbox-deliveries", deliveries.UpdateStatus)
	mux.HandleFunc("GET /sandbox-deliveries/{id}", deliveries.Get)
	mux.HandleFunc("DELETE /sandbox-deliveries/{id}", deliveries.Delete)

	return loggingMiddleware(mux)
}
