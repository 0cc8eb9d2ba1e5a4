package main

import (
	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes for the API
func setupRoutes(router *mux.Router) {
	router.HandleFunc("/getLyrics", getLyrics).Methods("GET")
	router.HandleFunc("/search", searchHandler).Methods("GET")

	// Cache management endpoints
	router.HandleFunc("/cache", getCacheDump).Methods("GET")
	router.HandleFunc("/cache/clear", clearCache).Methods("GET", "POST")

	// Health and stats endpoints
	router.HandleFunc("/health", getHealthStatus).Methods("GET")
	router.HandleFunc("/stats", getStats).Methods("GET")

	// Circuit breaker endpoints
	router.HandleFunc("/circuit-breaker", getCircuitBreakerStatus).Methods("GET")
	router.HandleFunc("/circuit-breaker/reset", resetCircuitBreaker).Methods("POST")

	router.HandleFunc("/", helpHandler)
}
