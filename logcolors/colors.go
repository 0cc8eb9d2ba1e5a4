package logcolors

// ANSI color codes for log prefixes
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
)

// Cache-related log prefixes
const (
	LogCacheInit       = Blue + "[Cache:Init]" + Reset
	LogCache           = Blue + "[Cache]" + Reset
	LogCacheClear      = Blue + "[Cache:Clear]" + Reset
	LogCacheLyrics     = Green + "[Cache:Lyrics]" + Reset
	LogCacheNegative   = Cyan + "[Cache:Negative]" + Reset
	LogCacheInvalidate = Red + "[Cache:Invalidation]" + Reset
)

// Server/Init log prefixes
const (
	LogServer  = Green + "[Server]" + Reset
	LogConfig  = Cyan + "[Config]" + Reset
	LogAPIKey  = Purple + "[APIKey]" + Reset
	LogRequest = Purple + "[Request]" + Reset
)

// Pipeline log prefixes
const (
	LogSearch    = Blue + "[Search]" + Reset
	LogHTTP      = Cyan + "[HTTP]" + Reset
	LogMatch     = Green + "[Match]" + Reset
	LogFetch     = Cyan + "[Fetch]" + Reset
	LogExtract   = Cyan + "[Extract]" + Reset
	LogLyrics    = Blue + "[Lyrics]" + Reset
	LogSuccess   = Green + "[Success]" + Reset
	LogNoResults = Yellow + "[No Results]" + Reset
	LogWarning   = Red + "[Warning]" + Reset
)

// CircuitBreakerPrefix returns a colored circuit breaker prefix with the given name
func CircuitBreakerPrefix(name string) string {
	return Purple + "[CircuitBreaker:" + name + "]" + Reset
}

// StatusColor picks the color used for an HTTP status code in request logs.
func StatusColor(statusCode int) string {
	switch {
	case statusCode >= 500:
		return Red
	case statusCode >= 400:
		return Yellow
	case statusCode >= 300:
		return Cyan
	case statusCode >= 200:
		return Green
	default:
		return Reset
	}
}
