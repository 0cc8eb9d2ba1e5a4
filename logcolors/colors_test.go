package logcolors

import (
	"net/http"
	"strings"
	"testing"
)

func TestStatusColor(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   string
	}{
		{"lyrics found", http.StatusOK, Green},
		{"no content", http.StatusNoContent, Green},
		{"redirect", http.StatusFound, Cyan},
		{"missing term", http.StatusBadRequest, Yellow},
		{"no results", http.StatusNotFound, Yellow},
		{"upstream failure", http.StatusBadGateway, Red},
		{"circuit open", http.StatusServiceUnavailable, Red},
		{"informational", http.StatusContinue, Reset},
		{"below range", 199, Reset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusColor(tt.statusCode); got != tt.expected {
				t.Errorf("StatusColor(%d) = %q, want %q", tt.statusCode, got, tt.expected)
			}
		})
	}
}

func TestCircuitBreakerPrefix(t *testing.T) {
	prefix := CircuitBreakerPrefix("Genius")
	if !strings.Contains(prefix, "Genius") || !strings.HasSuffix(prefix, Reset) {
		t.Errorf("Unexpected prefix %q", prefix)
	}
}
