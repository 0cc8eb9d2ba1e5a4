package main

import (
	"encoding/json"
	"net/http"
)

// APIResponse sets the standard headers and writes JSON bodies
type APIResponse struct {
	w           http.ResponseWriter
	r           *http.Request
	cacheStatus string
	stage       string
}

// Respond creates a response helper for the request
func Respond(w http.ResponseWriter, r *http.Request) *APIResponse {
	return &APIResponse{w: w, r: r}
}

// SetCacheStatus sets the X-Cache-Status header value
func (a *APIResponse) SetCacheStatus(status string) *APIResponse {
	a.cacheStatus = status
	return a
}

// SetFailedStage sets the X-Failed-Stage header value
func (a *APIResponse) SetFailedStage(stage string) *APIResponse {
	a.stage = stage
	return a
}

func (a *APIResponse) writeHeaders() {
	a.w.Header().Set("Content-Type", "application/json")
	a.w.Header().Set("X-Lyrics-Source", "genius")

	if a.cacheStatus != "" {
		a.w.Header().Set("X-Cache-Status", a.cacheStatus)
	}
	if a.stage != "" {
		a.w.Header().Set("X-Failed-Stage", a.stage)
	}
}

// JSON writes headers and encodes data as JSON (200 OK)
func (a *APIResponse) JSON(data interface{}) error {
	a.writeHeaders()
	return json.NewEncoder(a.w).Encode(data)
}

// Error writes headers, sets status code, and encodes error response
func (a *APIResponse) Error(statusCode int, data interface{}) error {
	a.writeHeaders()
	a.w.WriteHeader(statusCode)
	return json.NewEncoder(a.w).Encode(data)
}
