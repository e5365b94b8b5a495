package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rflorenc/formpatch/internal/models"
)

// DefaultBaseURL is the public HubSpot API host.
const DefaultBaseURL = "https://api.hubapi.com"

// DefaultPace is the pause inserted between page fetches and after updates.
const DefaultPace = 400 * time.Millisecond

// Pacer blocks for d or until ctx is done.
type Pacer func(ctx context.Context, d time.Duration) error

// Sleep is the wall-clock Pacer.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Token      string
	Pace       time.Duration
	Pacer      Pacer
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client is a bearer-token HTTP client for the HubSpot REST API.
type Client struct {
	baseURL    string
	token      string
	pace       time.Duration
	pacer      Pacer
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Client. Zero-valued options fall back to defaults.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		pace:       opts.Pace,
		pacer:      opts.Pacer,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.pacer == nil {
		c.pacer = Sleep
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// pagedResponse is the HubSpot v3 listing envelope.
type pagedResponse struct {
	Results []json.RawMessage `json:"results"`
	Paging  *struct {
		Next *struct {
			After string `json:"after"`
			Link  string `json:"link"`
		} `json:"next"`
	} `json:"paging"`
}

func (p *pagedResponse) nextLink() string {
	if p.Paging == nil || p.Paging.Next == nil {
		return ""
	}
	return p.Paging.Next.Link
}

// Pause waits for the configured pacing interval.
func (c *Client) Pause(ctx context.Context) error {
	return c.pacer(ctx, c.pace)
}

// resolve turns a path or a relative link into an absolute URL.
func (c *Client) resolve(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}
	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.baseURL + pathOrURL
}

// do sends an authenticated request and returns the body of a 2xx response.
// Any other outcome is reported as an *APIError.
func (c *Client) do(ctx context.Context, op, method, rawURL string, payload interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newAPIError(op, method, rawURL, 0, nil, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newAPIError(op, method, rawURL, resp.StatusCode, nil, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, newAPIError(op, method, rawURL, resp.StatusCode, body, nil)
	}
	return body, nil
}

// GetJSON performs an authenticated GET and unmarshals the response into dest.
func (c *Client) GetJSON(ctx context.Context, op, path string, params url.Values, dest interface{}) error {
	u := c.resolve(path)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	body, err := c.do(ctx, op, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// GetAll fetches all pages of a paginated endpoint, following paging.next.link
// until it is absent and pausing between page fetches.
func (c *Client) GetAll(ctx context.Context, op, path string, params url.Values) ([]models.Form, error) {
	all := []models.Form{}
	currentURL := c.resolve(path)
	if len(params) > 0 {
		currentURL += "?" + params.Encode()
	}
	seen := map[string]bool{}

	for page := 1; currentURL != ""; page++ {
		seen[currentURL] = true
		body, err := c.do(ctx, op, http.MethodGet, currentURL, nil)
		if err != nil {
			return nil, err
		}

		var resp pagedResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("parsing response: %w", err)
		}

		for _, raw := range resp.Results {
			var f models.Form
			if err := json.Unmarshal(raw, &f); err != nil {
				return nil, fmt.Errorf("parsing form: %w", err)
			}
			all = append(all, f)
		}
		c.logger.Debug("fetched page",
			zap.Int("page", page),
			zap.Int("results", len(resp.Results)),
			zap.Int("total", len(all)))

		next := resp.nextLink()
		if next == "" {
			break
		}
		next = c.resolve(next)
		if seen[next] {
			c.logger.Warn("pagination link repeated, stopping", zap.String("link", next))
			break
		}
		if err := c.Pause(ctx); err != nil {
			return nil, err
		}
		currentURL = next
	}
	return all, nil
}

// Patch performs an authenticated PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, op, path string, payload interface{}) ([]byte, error) {
	return c.do(ctx, op, http.MethodPatch, c.resolve(path), payload)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
