package genius

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"genius-lyrics-go/config"
	"genius-lyrics-go/logcolors"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultSearchURL is the Genius search endpoint
	DefaultSearchURL = "https://api.genius.com/search"

	defaultTimeout = 10 * time.Second
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Client talks to the Genius search API and lyrics pages.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	searchURL   string
	credentials config.Credentials
	timeout     time.Duration
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSearchURL points the client at a different search endpoint
func WithSearchURL(searchURL string) Option {
	return func(c *Client) {
		c.searchURL = searchURL
	}
}

// WithTimeout sets the timeout shared by search and page requests. It is
// applied on top of any client given with WithHTTPClient, in either order.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewClient creates a Genius client from the given credentials
func NewClient(creds config.Credentials, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		searchURL:   DefaultSearchURL,
		credentials: creds,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}

	if c.credentials.AccessToken.Value == "" {
		log.Warnf("%s [Genius] Access token is empty, search requests will likely be rejected", logcolors.LogWarning)
	}

	return c
}

// Search queries the Genius search endpoint for term.
// The term is forwarded as-is, including when empty.
func (c *Client) Search(ctx context.Context, term string) (*SearchResponse, error) {
	requestURL, err := c.searchRequestURL(term)
	if err != nil {
		return nil, &SearchError{Kind: ErrTransportFailure, Err: fmt.Errorf("failed to build search URL: %w", err)}
	}

	log.Debugf("%s [Genius] Searching: %s", logcolors.LogSearch, term)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &SearchError{Kind: ErrTransportFailure, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SearchError{Kind: ErrTransportFailure, Err: redactURLError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &SearchError{Kind: ErrUnsuccessfulStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SearchError{Kind: ErrTransportFailure, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	searchResp, err := decodeSearchResponse(body)
	if err != nil {
		return nil, &SearchError{Kind: ErrDeserializationFailure, Err: err}
	}

	log.Debugf("%s [Genius] %d hits for: %s (meta status %d)",
		logcolors.LogSearch, len(searchResp.Response.Hits), term, searchResp.Meta.Status)

	return searchResp, nil
}

func (c *Client) searchRequestURL(term string) (string, error) {
	u, err := url.Parse(c.searchURL)
	if err != nil {
		return "", err
	}

	params := u.Query()
	params.Set("q", term)
	params.Set("access_token", c.credentials.AccessToken.Value)
	u.RawQuery = params.Encode()

	return u.String(), nil
}

// decodeSearchResponse parses the search envelope, rejecting bodies that
// are valid JSON but lack meta.status, response, response.hits or a
// lyrics page URL on any hit.
func decodeSearchResponse(body []byte) (*SearchResponse, error) {
	var wire wireSearchResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	switch {
	case wire.Meta == nil:
		return nil, errors.New("missing meta")
	case wire.Meta.Status == nil:
		return nil, errors.New("missing meta.status")
	case wire.Response == nil:
		return nil, errors.New("missing response")
	case wire.Response.Hits == nil:
		return nil, errors.New("missing response.hits")
	}

	hits := make([]Hit, 0, len(*wire.Response.Hits))
	for i, h := range *wire.Response.Hits {
		if h.Result == nil {
			return nil, fmt.Errorf("hit %d has no result", i)
		}
		if h.Result.LyricsURL == "" {
			return nil, fmt.Errorf("hit %d has no lyrics url", i)
		}
		hits = append(hits, Hit{Result: *h.Result})
	}

	return &SearchResponse{
		Meta:     Meta{Status: *wire.Meta.Status},
		Response: Response{Hits: hits},
	}, nil
}

// FetchPage downloads the HTML of a lyrics page
func (c *Client) FetchPage(ctx context.Context, pageURL string) (string, error) {
	log.Debugf("%s [Genius] Fetching page: %s", logcolors.LogFetch, pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warnf("%s [Genius] Lyrics page returned status %d: %s", logcolors.LogWarning, resp.StatusCode, pageURL)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isTextContent(contentType) {
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("non-text response: %s", contentType)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	return string(body), nil
}

// isTextContent reports whether a Content-Type can be read as a page.
// A missing header is accepted.
func isTextContent(contentType string) bool {
	if contentType == "" {
		return true
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.ToLower(strings.SplitN(contentType, ";", 2)[0]))
	}

	switch {
	case strings.HasPrefix(mediaType, "text/"):
		return true
	case mediaType == "application/xhtml+xml", mediaType == "application/xml":
		return true
	default:
		return false
	}
}

// redactURLError strips the request URL (which embeds the access token)
// from transport errors before they reach logs or callers.
func redactURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("request failed: %s: %w", urlErr.Op, urlErr.Err)
	}
	return fmt.Errorf("request failed: %w", err)
}
