package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alfredjeanlab/automa/internal/idgen"
	"github.com/alfredjeanlab/automa/internal/model"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// HTTPClient implements Client using the automa HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithLogger sets the logger used for per-request debug logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:7999"). When tokens yields a non-empty token, an
// Authorization header is set on every JSON request.
func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) *HTTPClient {
	if tokens == nil {
		tokens = StaticToken("")
	}
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client targets.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

// --- Health and identity ---

// Health succeeds on any 2xx response; the body is ignored.
func (c *HTTPClient) Health(ctx context.Context) error {
	return c.Get(ctx, PathHealth, nil)
}

// Login exchanges credentials for a token using a URL-encoded form body, as an
// OAuth2 password-flow token endpoint expects.
func (c *HTTPClient) Login(ctx context.Context, creds model.Credentials) (*model.Token, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	var tok model.Token
	if err := c.Post(ctx, PathToken, form, true, &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token response has no access_token")
	}
	return &tok, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.Get(ctx, PathMe, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// --- Collections ---

func (c *HTTPClient) ListAgents(ctx context.Context) ([]model.Agent, error) {
	var agents []model.Agent
	if err := c.Get(ctx, PathAgents, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

func (c *HTTPClient) CreateAgent(ctx context.Context, req *model.CreateAgentRequest) (*model.Agent, error) {
	var agent model.Agent
	if err := c.Post(ctx, PathAgents, req, false, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

func (c *HTTPClient) ListScripts(ctx context.Context) ([]model.Script, error) {
	var scripts []model.Script
	if err := c.Get(ctx, PathScripts, &scripts); err != nil {
		return nil, err
	}
	return scripts, nil
}

func (c *HTTPClient) CreateScript(ctx context.Context, req *model.CreateScriptRequest) (*model.Script, error) {
	var script model.Script
	if err := c.Post(ctx, PathScripts, req, false, &script); err != nil {
		return nil, err
	}
	return &script, nil
}

func (c *HTTPClient) ListJobs(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	if err := c.Get(ctx, PathJobs, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *HTTPClient) CreateJob(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	var job model.Job
	if err := c.Post(ctx, PathJobs, req, false, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// --- Raw access ---

// APIError is a non-2xx response. Its message is the raw response body.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return e.Body
}

// Get issues an authenticated read and decodes the JSON response into out.
// If out is nil the body is discarded.
func (c *HTTPClient) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// Post issues a write. With asForm the data (url.Values or map[string]string)
// is sent URL-encoded and no Authorization header is attached; otherwise data
// is sent as JSON with the bearer token when one is present.
func (c *HTTPClient) Post(ctx context.Context, path string, data any, asForm bool, out any) error {
	if asForm {
		form, err := formValues(data)
		if err != nil {
			return err
		}
		return c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), contentTypeForm, out)
	}
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), contentTypeJSON, out)
}

func formValues(data any) (url.Values, error) {
	switch v := data.(type) {
	case url.Values:
		return v, nil
	case map[string]string:
		form := make(url.Values, len(v))
		for k, val := range v {
			form.Set(k, val)
		}
		return form, nil
	case nil:
		return url.Values{}, nil
	default:
		return nil, fmt.Errorf("form body must be url.Values or map[string]string, got %T", data)
	}
}

// do performs the request and decodes a JSON response into out. An empty
// contentType marks a read; reads and JSON writes carry the JSON content type
// and the bearer token, form writes carry neither.
func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	reqID := idgen.RequestID()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", contentTypeJSON)
	if contentType == contentTypeForm {
		req.Header.Set("Content-Type", contentTypeForm)
	} else {
		req.Header.Set("Content-Type", contentTypeJSON)
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start),
	)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	// 204 No Content or a caller that ignores the body.
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

var _ Client = (*HTTPClient)(nil)
