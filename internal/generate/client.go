package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/blacktop/imagecraft/internal/codec"
)

const defaultFailure = "failed to generate image"

// Client posts prompts to an external image generation endpoint.
type Client struct {
	endpoint     string
	httpClient   *http.Client
	timeout      time.Duration
	sendSettings bool
	logger       *log.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each request. Zero leaves the transport default in place.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithSettings makes the client send the settings snapshot next to the prompt.
func WithSettings(send bool) Option {
	return func(c *Client) { c.sendSettings = send }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("generation endpoint is not configured")
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, fmt.Errorf("generation endpoint must be an http(s) URL: %s", endpoint)
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Endpoint() string { return c.endpoint }

// Generate issues exactly one POST and returns a renderable image URL.
// The prompt is sent as given; callers reject empty prompts beforehand.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if !c.sendSettings {
		req.Settings = nil
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("error marshaling JSON: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")

	c.logger.Debug("Sending generation request", "endpoint", c.endpoint, "prompt", req.Prompt)
	start := time.Now()
	resp, err := c.httpClient.Do(hreq)
	if err != nil {
		return "", &NetworkError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Endpoint: c.endpoint, Err: fmt.Errorf("error reading response: %w", err)}
	}
	c.logger.Debug("API response", "status", resp.StatusCode, "bytes", len(body), "took", time.Since(start))

	var result Response
	decodeErr := json.Unmarshal(body, &result)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &ServiceError{StatusCode: resp.StatusCode, Status: statusText(resp)}
		if decodeErr == nil {
			serr.Message = result.Error
		}
		return "", serr
	}
	if decodeErr != nil {
		return "", &ServiceError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("error unmarshaling JSON: %v", decodeErr),
		}
	}
	if result.Success != nil && !*result.Success {
		return "", &ServiceError{StatusCode: resp.StatusCode, Message: orDefault(result.Error)}
	}

	image := strings.TrimSpace(result.Image)
	if image == "" {
		return "", &ServiceError{StatusCode: resp.StatusCode, Message: orDefault(result.Error)}
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image, nil
	}
	return codec.Normalize(image), nil
}

func statusText(resp *http.Response) string {
	if t := http.StatusText(resp.StatusCode); t != "" {
		return t
	}
	return resp.Status
}

func orDefault(msg string) string {
	if msg = strings.TrimSpace(msg); msg != "" {
		return msg
	}
	return defaultFailure
}
