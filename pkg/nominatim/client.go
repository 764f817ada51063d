// Package nominatim is a thin client for a Nominatim-compatible geocoding
// service, used to resolve postal codes and coordinates the directory does
// not know about.
package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/greenloop/locator/internal/resilience"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// cityFields lists the address-component fields that may carry the city
// name, in priority order. The service's taxonomy varies by region, so the
// first non-empty field wins.
var cityFields = []string{"city", "locality", "town", "village", "municipality", "suburb"}

// Place is a geocoded location with its extracted city and state.
type Place struct {
	City      string
	State     string
	Latitude  float64
	Longitude float64
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL points the client at a different Nominatim instance.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header required by the public instance.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRateLimit sets the requests-per-second limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry overrides the retry policy for transient upstream failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// Client calls a Nominatim-compatible geocoding service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	retry      resilience.RetryConfig
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		userAgent:  "greenloop-locator/1.0",
		limiter:    rate.NewLimiter(1, 1), // public instance policy: 1 req/s
		retry:      resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// nominatimResult is one entry of a search response, or the whole reverse
// response.
type nominatimResult struct {
	Lat     string            `json:"lat"`
	Lon     string            `json:"lon"`
	Address map[string]string `json:"address"`
}

// SearchPostalCode forward-geocodes a US postal code. Returns (nil, nil)
// when the service has no usable result, which defers to the next strategy.
func (c *Client) SearchPostalCode(ctx context.Context, zip string) (*Place, error) {
	params := url.Values{
		"postalcode":     {zip},
		"country":        {"US"},
		"format":         {"json"},
		"addressdetails": {"1"},
		"limit":          {"1"},
	}

	body, err := c.get(ctx, "/search", params)
	if err != nil {
		return nil, err
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		// Malformed body is a miss, not a hard failure.
		zap.L().Debug("nominatim: malformed search response", zap.Error(err))
		return nil, nil
	}
	if len(results) == 0 {
		return nil, nil
	}
	return placeFromResult(results[0]), nil
}

// Reverse reverse-geocodes coordinates. Returns (nil, nil) when the service
// has no usable result.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (*Place, error) {
	params := url.Values{
		"lat":    {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(lng, 'f', -1, 64)},
		"format": {"json"},
	}

	body, err := c.get(ctx, "/reverse", params)
	if err != nil {
		return nil, err
	}

	var result nominatimResult
	if err := json.Unmarshal(body, &result); err != nil {
		zap.L().Debug("nominatim: malformed reverse response", zap.Error(err))
		return nil, nil
	}
	return placeFromResult(result), nil
}

// get performs a rate-limited GET and returns the raw body, retrying
// transient upstream failures. Non-200 responses are errors so the caller's
// strategy boundary can swallow them.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path + "?" + params.Encode()

	return resilience.DoVal(ctx, c.retry, "nominatim"+path, func(ctx context.Context) ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "nominatim: rate limit")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "nominatim: build request")
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "nominatim: request")
		}
		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode != http.StatusOK {
			statusErr := eris.Errorf("nominatim: %s returned status %d", path, resp.StatusCode)
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
			}
			return nil, statusErr
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "nominatim: read body")
		}
		return body, nil
	})
}

// placeFromResult extracts a Place, returning nil when no city or state can
// be determined.
func placeFromResult(r nominatimResult) *Place {
	var city string
	for _, field := range cityFields {
		if v := r.Address[field]; v != "" {
			city = v
			break
		}
	}
	state := r.Address["state"]
	if city == "" || state == "" {
		return nil
	}

	p := &Place{City: city, State: state}
	p.Latitude, _ = strconv.ParseFloat(r.Lat, 64)
	p.Longitude, _ = strconv.ParseFloat(r.Lon, 64)
	return p
}
