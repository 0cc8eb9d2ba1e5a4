package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"genius-lyrics-go/cache"
	"genius-lyrics-go/circuitbreaker"
	"genius-lyrics-go/logcolors"
	"genius-lyrics-go/services/genius"
	"genius-lyrics-go/stats"

	log "github.com/sirupsen/logrus"
)

// searchTerm reads q, or joins the song and artist parameters
func searchTerm(r *http.Request) string {
	query := r.URL.Query()
	if q := strings.TrimSpace(query.Get("q")); q != "" {
		return q
	}

	song := strings.TrimSpace(query.Get("s") + query.Get("song"))
	artist := strings.TrimSpace(query.Get("a") + query.Get("artist"))
	return strings.TrimSpace(song + " " + artist)
}

func isAuthorized(r *http.Request) bool {
	token := conf.Configuration.CacheAccessToken
	return token != "" && r.Header.Get("Authorization") == token
}

func getLyrics(w http.ResponseWriter, r *http.Request) {
	term := searchTerm(r)
	if term == "" {
		Respond(w, r).Error(http.StatusUnprocessableEntity, ErrorResponse{
			Error: "Provide a search term via q, or a song name (s) and artist (a)",
		})
		return
	}

	s := stats.Get()
	cacheKey := buildCacheKey(term)

	if cached, ok := getCachedLyrics(cacheKey); ok {
		s.RecordCacheHit()
		log.Infof("%s Serving cached lyrics for %q", logcolors.LogCacheLyrics, term)
		Respond(w, r).SetCacheStatus("HIT").JSON(LyricsResponse{
			Lyrics:      cached.Lyrics,
			Track:       cached.Track,
			Containers:  cached.Containers,
			LyricsFound: true,
		})
		return
	}

	if reason, ok := getNegativeCache(cacheKey); ok {
		s.RecordNegativeCacheHit()
		log.Infof("%s Serving cached 'no results' for %q", logcolors.LogCacheNegative, term)
		Respond(w, r).SetCacheStatus("NEGATIVE_HIT").Error(http.StatusNotFound, ErrorResponse{
			Error: reason,
			Stage: string(genius.StageSelect),
			Kind:  genius.KindName(genius.ErrNoResults),
		})
		return
	}

	s.RecordCacheMiss()

	var result *genius.LyricsResult
	err := geniusBreaker.Execute(func() error {
		var lookupErr error
		result, lookupErr = geniusClient.Lookup(r.Context(), term)
		return lookupErr
	}, isUpstreamFailure)

	if err != nil {
		writeLookupError(w, r, cacheKey, err)
		return
	}

	if !result.Found() {
		s.RecordOutcome("not_found")
		notFound := false
		Respond(w, r).SetCacheStatus("MISS").Error(http.StatusNotFound, ErrorResponse{
			Error:       fmt.Sprintf("No lyrics container on %s", result.Track.LyricsURL),
			LyricsFound: &notFound,
		})
		return
	}

	s.RecordOutcome("found")
	setCachedLyrics(cacheKey, result)
	Respond(w, r).SetCacheStatus("MISS").JSON(LyricsResponse{
		Lyrics:      result.Lyrics,
		Track:       result.Track,
		Containers:  result.Containers,
		LyricsFound: true,
	})
}

// writeLookupError maps a failed lookup onto an HTTP response
func writeLookupError(w http.ResponseWriter, r *http.Request, cacheKey string, err error) {
	s := stats.Get()
	resp := Respond(w, r).SetCacheStatus("MISS")

	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		s.RecordOutcome("circuit_open")
		retry := geniusBreaker.TimeUntilRetry()
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(math.Ceil(retry.Seconds()))))
		resp.Error(http.StatusServiceUnavailable, ErrorResponse{
			Error:      "Genius is temporarily unavailable",
			RetryAfter: retry.String(),
		})
		return
	}

	stage := string(genius.StageOf(err))
	body := ErrorResponse{
		Error:  err.Error(),
		Stage:  stage,
		Kind:   genius.KindName(err),
		Status: genius.StatusCode(err),
	}
	resp.SetFailedStage(stage)

	if shouldNegativeCache(err) {
		s.RecordOutcome("no_results")
		setNegativeCache(cacheKey, "No search results")
		resp.Error(http.StatusNotFound, body)
		return
	}

	switch genius.StageOf(err) {
	case genius.StageFetch:
		s.RecordOutcome("fetch_failure")
	default:
		s.RecordOutcome("search_failure")
	}
	log.Errorf("%s Lookup failed: %v", logcolors.LogWarning, err)
	resp.Error(http.StatusBadGateway, body)
}

func searchHandler(w http.ResponseWriter, r *http.Request) {
	term := searchTerm(r)
	if term == "" {
		Respond(w, r).Error(http.StatusUnprocessableEntity, ErrorResponse{Error: "Provide a search term via q"})
		return
	}

	var resp *genius.SearchResponse
	err := geniusBreaker.Execute(func() error {
		var searchErr error
		resp, searchErr = geniusClient.Search(r.Context(), term)
		return searchErr
	}, isUpstreamFailure)

	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			stats.Get().RecordOutcome("circuit_open")
			Respond(w, r).Error(http.StatusServiceUnavailable, ErrorResponse{
				Error:      "Genius is temporarily unavailable",
				RetryAfter: geniusBreaker.TimeUntilRetry().String(),
			})
			return
		}
		stats.Get().RecordOutcome("search_failure")
		Respond(w, r).SetFailedStage(string(genius.StageSearch)).Error(http.StatusBadGateway, ErrorResponse{
			Error:  err.Error(),
			Stage:  string(genius.StageSearch),
			Kind:   genius.KindName(err),
			Status: genius.StatusCode(err),
		})
		return
	}

	hits := make([]genius.TrackResult, 0, len(resp.Response.Hits))
	for _, hit := range resp.Response.Hits {
		hits = append(hits, hit.Result)
	}
	Respond(w, r).JSON(SearchHitsResponse{Query: term, Count: len(hits), Hits: hits})
}

func getStats(w http.ResponseWriter, r *http.Request) {
	if !isAuthorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	snapshot := stats.Get().Snapshot()

	numKeys, sizeInKB := persistentCache.Stats()
	snapshot["cache_storage"] = map[string]interface{}{
		"keys":    numKeys,
		"size_kb": sizeInKB,
		"size_mb": float64(sizeInKB) / 1024,
	}
	snapshot["circuit_breaker"] = geniusBreaker.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}

func getCacheDump(w http.ResponseWriter, r *http.Request) {
	if !isAuthorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	numKeys, sizeInKB := persistentCache.Stats()
	s := stats.Get()

	dump := CacheDumpResponse{
		NumberOfKeys: numKeys,
		SizeInKB:     sizeInKB,
		SizeInMB:     float64(sizeInKB) / 1024,
		Performance: CachePerformance{
			Hits:         s.CacheHits.Load(),
			Misses:       s.CacheMisses.Load(),
			NegativeHits: s.NegativeCacheHits.Load(),
			HitRate:      s.CacheHitRate(),
		},
	}

	if r.URL.Query().Get("entries") == "true" {
		dump.Cache = CacheDump{}
		persistentCache.Range(func(key string, entry cache.CacheEntry) bool {
			dump.Cache[key] = entry
			return true
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dump)
}

func clearCache(w http.ResponseWriter, r *http.Request) {
	if !isAuthorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	numKeys, _ := persistentCache.Stats()
	if err := persistentCache.Clear(); err != nil {
		log.Errorf("%s Failed to clear cache: %v", logcolors.LogCacheClear, err)
		http.Error(w, "Failed to clear cache", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":      "Cache cleared successfully",
		"keys_cleared": numKeys,
	})
}

func getHealthStatus(w http.ResponseWriter, r *http.Request) {
	snap := geniusBreaker.Snapshot()

	health := map[string]interface{}{
		"status":          "ok",
		"circuit_breaker": snap.State,
		"access_token":    geniusCredentials.AccessToken.Present && geniusCredentials.AccessToken.Value != "",
	}

	if snap.State == circuitbreaker.StateOpen.String() {
		health["status"] = "degraded"
		health["circuit_breaker_retry_in"] = geniusBreaker.TimeUntilRetry().String()
	}

	if !geniusCredentials.AccessToken.Present || geniusCredentials.AccessToken.Value == "" {
		health["status"] = "unhealthy"
		health["error"] = "GENIUS_ACCESS_TOKEN is not configured"
	}

	if isAuthorized(r) {
		health["circuit_breaker_failures"] = snap.Failures
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

func getCircuitBreakerStatus(w http.ResponseWriter, r *http.Request) {
	if !isAuthorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(geniusBreaker.Snapshot())
}

func resetCircuitBreaker(w http.ResponseWriter, r *http.Request) {
	if !isAuthorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	geniusBreaker.Reset()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Circuit breaker reset to CLOSED state",
	})
}

func helpHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"help": "Use /getLyrics?q=<term> (or s=<song>&a=<artist>) to get plain-text lyrics from Genius. Example: /getLyrics?q=Unpeeled",
		"endpoints": []string{
			"/getLyrics", "/search", "/health", "/stats", "/cache", "/cache/clear",
			"/circuit-breaker", "/circuit-breaker/reset",
		},
	})
}
