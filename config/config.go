package config

import (
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

var (
	conf     Config
	loadOnce sync.Once
)

type Config struct {
	Configuration struct {
		Port                               string   `envconfig:"PORT" default:"8080"`
		GeniusSearchURL                    string   `envconfig:"GENIUS_SEARCH_URL" default:"https://api.genius.com/search"`
		RequestTimeoutInSeconds            int      `envconfig:"REQUEST_TIMEOUT_IN_SECONDS" default:"10"` // applies to both search and page fetch
		LyricsCacheTTLInSeconds            int      `envconfig:"LYRICS_CACHE_TTL_IN_SECONDS" default:"86400"`
		NegativeCacheTTLInSeconds          int      `envconfig:"NEGATIVE_CACHE_TTL_IN_SECONDS" default:"3600"` // TTL for "no results" responses
		CacheInvalidationIntervalInSeconds int      `envconfig:"CACHE_INVALIDATION_INTERVAL_IN_SECONDS" default:"3600"`
		CacheDBPath                        string   `envconfig:"CACHE_DB_PATH" default:"./data/cache.db"`
		CacheAccessToken                   string   `envconfig:"CACHE_ACCESS_TOKEN" default:""`
		APIKey                             string   `envconfig:"API_KEY" default:""`
		APIKeyRequired                     bool     `envconfig:"API_KEY_REQUIRED" default:"false"`
		AllowedOrigins                     []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
		CircuitBreakerThreshold            int      `envconfig:"CIRCUIT_BREAKER_THRESHOLD" default:"5"`       // Consecutive failures before circuit opens
		CircuitBreakerCooldownSecs         int      `envconfig:"CIRCUIT_BREAKER_COOLDOWN_SECS" default:"300"` // Seconds to wait before retrying
	}

	FeatureFlags struct {
		CacheCompression bool `envconfig:"FF_CACHE_COMPRESSION" default:"true"`
	}
}

// RequestTimeout returns the upstream HTTP timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Configuration.RequestTimeoutInSeconds) * time.Second
}

// load loads the configuration from the environment.
func load() (Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Warnf("Error loading env config: %v", err)
	}

	cfg := Config{}
	err = envconfig.Process("", &cfg)
	return cfg, err
}

func mustLoad() Config {
	c, err := load()
	if err != nil {
		log.WithError(err).Warnf("Unable to load configuration")
	}

	return c
}

// Get returns the process configuration, loading it on first use.
func Get() Config {
	loadOnce.Do(func() {
		conf = mustLoad()
	})
	return conf
}
