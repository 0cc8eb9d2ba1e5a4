package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIResponse_SetCacheStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		expected string
	}{
		{"HIT status", "HIT", "HIT"},
		{"MISS status", "MISS", "MISS"},
		{"NEGATIVE_HIT status", "NEGATIVE_HIT", "NEGATIVE_HIT"},
		{"no status", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", "/test", nil)

			Respond(w, r).SetCacheStatus(tt.status).JSON(map[string]string{"test": "data"})

			if got := w.Header().Get("X-Cache-Status"); got != tt.expected {
				t.Errorf("X-Cache-Status = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAPIResponse_StandardHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/test", nil)

	Respond(w, r).JSON(map[string]string{"test": "data"})

	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want %q", got, "application/json")
	}
	if got := w.Header().Get("X-Lyrics-Source"); got != "genius" {
		t.Errorf("X-Lyrics-Source = %q, want %q", got, "genius")
	}
	if got := w.Header().Get("X-Failed-Stage"); got != "" {
		t.Errorf("X-Failed-Stage = %q, want empty", got)
	}
}

func TestAPIResponse_Error(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/test", nil)

	Respond(w, r).
		SetCacheStatus("MISS").
		SetFailedStage("fetch").
		Error(http.StatusBadGateway, ErrorResponse{Error: "boom", Stage: "fetch", Kind: "fetch_failure"})

	if w.Code != http.StatusBadGateway {
		t.Errorf("status code = %d, want %d", w.Code, http.StatusBadGateway)
	}
	if got := w.Header().Get("X-Cache-Status"); got != "MISS" {
		t.Errorf("X-Cache-Status = %q, want %q", got, "MISS")
	}
	if got := w.Header().Get("X-Failed-Stage"); got != "fetch" {
		t.Errorf("X-Failed-Stage = %q, want %q", got, "fetch")
	}

	var resp map[string]interface{}
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["kind"] != "fetch_failure" {
		t.Errorf("kind = %v, want %q", resp["kind"], "fetch_failure")
	}
	if _, ok := resp["lyricsFound"]; ok {
		t.Error("lyricsFound should be omitted when unset")
	}
}

func TestAPIResponse_JSONBody(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/test", nil)

	Respond(w, r).SetCacheStatus("HIT").JSON(LyricsResponse{Lyrics: "Hello there", Containers: 2, LyricsFound: true})

	var resp map[string]interface{}
	json.NewDecoder(w.Body).Decode(&resp)

	if resp["lyrics"] != "Hello there" {
		t.Errorf("lyrics = %v, want %q", resp["lyrics"], "Hello there")
	}
	if resp["containers"] != float64(2) {
		t.Errorf("containers = %v, want 2", resp["containers"])
	}
	if resp["lyricsFound"] != true {
		t.Errorf("lyricsFound = %v, want true", resp["lyricsFound"])
	}
}
