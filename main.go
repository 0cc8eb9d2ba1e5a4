package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"genius-lyrics-go/cache"
	"genius-lyrics-go/circuitbreaker"
	"genius-lyrics-go/config"
	"genius-lyrics-go/logcolors"
	"genius-lyrics-go/middleware"
	"genius-lyrics-go/services/genius"
	"genius-lyrics-go/stats"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

var (
	conf              config.Config
	geniusCredentials config.Credentials
	geniusClient      *genius.Client
	geniusBreaker     *circuitbreaker.CircuitBreaker
	persistentCache   *cache.PersistentCache
)

// publicPaths never require an API key
var publicPaths = []string{"/", "/health", "/stats", "/cache*", "/circuit-breaker*"}

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
}

func newBreaker(c config.Config) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		Name:          "Genius",
		Threshold:     c.Configuration.CircuitBreakerThreshold,
		Cooldown:      time.Duration(c.Configuration.CircuitBreakerCooldownSecs) * time.Second,
		OnStateChange: onBreakerStateChange,
	})
}

// onBreakerStateChange runs under the breaker lock
func onBreakerStateChange(name string, from, to circuitbreaker.State) {
	if to != circuitbreaker.StateOpen {
		log.Infof("%s %s -> %s", logcolors.CircuitBreakerPrefix(name), from, to)
		return
	}
	stats.Get().RecordCircuitOpen()
	log.Warnf("%s %s -> %s, Genius lookups are paused", logcolors.CircuitBreakerPrefix(name), from, to)
}

// newHandler builds the router and wraps it in the middleware chain
func newHandler(c config.Config) http.Handler {
	router := mux.NewRouter()
	setupRoutes(router)

	authed := middleware.APIKeyMiddleware(c.Configuration.APIKey, c.Configuration.APIKeyRequired, publicPaths)(router)
	logged := middleware.LoggingMiddleware(authed)

	return cors.New(cors.Options{
		AllowedOrigins:   c.Configuration.AllowedOrigins,
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-API-Key"},
		ExposedHeaders:   []string{"X-Cache-Status", "X-Lyrics-Source", "X-Failed-Stage", "Retry-After"},
		AllowCredentials: true,
	}).Handler(logged)
}

func main() {
	conf = config.Get()
	geniusCredentials = config.LoadCredentials()

	var err error
	persistentCache, err = cache.NewPersistentCache(conf.Configuration.CacheDBPath, conf.FeatureFlags.CacheCompression)
	if err != nil {
		log.Fatalf("%s Failed to initialize cache: %v", logcolors.LogCacheInit, err)
	}
	defer persistentCache.Close()

	geniusClient = genius.NewClient(geniusCredentials,
		genius.WithSearchURL(conf.Configuration.GeniusSearchURL),
		genius.WithTimeout(conf.RequestTimeout()),
	)
	geniusBreaker = newBreaker(conf)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go invalidateCache(ctx, time.Duration(conf.Configuration.CacheInvalidationIntervalInSeconds)*time.Second)

	server := &http.Server{
		Addr:              ":" + conf.Configuration.Port,
		Handler:           newHandler(conf),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Infof("%s Shutting down", logcolors.LogServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("%s Shutdown error: %v", logcolors.LogServer, err)
		}
	}()

	log.Infof("%s Listening on port %s", logcolors.LogServer, conf.Configuration.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("%s %v", logcolors.LogServer, err)
	}
}
