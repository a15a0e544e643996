package acoustid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Release identifies a MusicBrainz release attached to a recording.
type Release struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Recording describes a MusicBrainz recording matched by fingerprint.
type Recording struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Releases []Release `json:"releases"`
}

// Result represents a single AcoustID match with its confidence score.
type Result struct {
	ID         string      `json:"id"`
	Score      float64     `json:"score"`
	Recordings []Recording `json:"recordings"`
}

// Response models the AcoustID lookup payload.
type Response struct {
	Status  string   `json:"status"`
	Results []Result `json:"results"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Lookuper defines the lookup operation the resolver depends on.
type Lookuper interface {
	Lookup(ctx context.Context, fingerprint string, durationSeconds int) (*Response, error)
}

// Client provides access to the AcoustID lookup API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Lookuper = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates an AcoustID client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("acoustid api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("acoustid base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Lookup queries AcoustID with the supplied fingerprint and duration,
// requesting recording and release metadata for each match.
func (c *Client) Lookup(ctx context.Context, fingerprint string, durationSeconds int) (*Response, error) {
	fingerprint = strings.TrimSpace(fingerprint)
	if fingerprint == "" {
		return nil, errors.New("fingerprint must not be empty")
	}
	if durationSeconds <= 0 {
		return nil, errors.New("duration must be positive")
	}

	endpoint, err := url.Parse(c.baseURL + "/lookup")
	if err != nil {
		return nil, fmt.Errorf("parse acoustid url: %w", err)
	}
	params := url.Values{}
	params.Set("client", c.apiKey)
	params.Set("meta", "recordings releases")
	params.Set("fingerprint", fingerprint)
	params.Set("duration", strconv.Itoa(durationSeconds))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("acoustid lookup returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode acoustid response: %w", err)
	}
	if payload.Status != "ok" {
		message := strings.TrimSpace(payload.Error.Message)
		if message == "" {
			message = payload.Status
		}
		return nil, fmt.Errorf("acoustid lookup failed: %s", message)
	}
	return &payload, nil
}
