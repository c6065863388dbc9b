package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alfredjeanlab/automa/internal/model"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	// captured from the request
	method        string
	path          string
	body          string
	contentType   string
	authorization string
	hasAuth       bool
	requestID     string

	// canned response
	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.contentType = r.Header.Get("Content-Type")
	h.authorization = r.Header.Get("Authorization")
	_, h.hasAuth = r.Header["Authorization"]
	h.requestID = r.Header.Get("X-Request-ID")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

// newTestClient creates an HTTPClient pointed at a test server with the given handler.
func newTestClient(h http.Handler, token string) (*HTTPClient, *httptest.Server) {
	srv := httptest.NewServer(h)
	c := NewHTTPClient(srv.URL, StaticToken(token))
	return c, srv
}

// mutableToken lets a test change the token between requests.
type mutableToken struct{ tok string }

func (m *mutableToken) Token() string { return m.tok }

// --- Error surface ---

func TestHTTPClient_NonSuccessReturnsBodyAsMessage(t *testing.T) {
	for _, tc := range []struct {
		name   string
		status int
		body   string
	}{
		{"Unauthorized", http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`},
		{"Forbidden", http.StatusForbidden, `{"detail":"Admin required"}`},
		{"ServerErrorPlainText", http.StatusInternalServerError, "Internal Server Error"},
		{"Redirect", http.StatusNotModified, ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := &testHandler{statusCode: tc.status, responseBody: tc.body}
			c, srv := newTestClient(h, "")
			defer srv.Close()

			err := c.Get(context.Background(), PathAgents, nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if err.Error() != tc.body {
				t.Errorf("error = %q, want body %q", err.Error(), tc.body)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.StatusCode != tc.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tc.status)
			}

			err = c.Post(context.Background(), PathAgents, map[string]string{"name": "x"}, false, nil)
			if err == nil || err.Error() != tc.body {
				t.Errorf("Post error = %v, want body %q", err, tc.body)
			}
		})
	}
}

func TestHTTPClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := NewHTTPClient(addr, nil)
	err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure should not be an APIError, got %v", apiErr)
	}
	if !strings.Contains(err.Error(), "performing request") {
		t.Errorf("error = %q, want wrapped transport error", err.Error())
	}
}

// --- Headers ---

func TestHTTPClient_BearerTokenOnJSONRequests(t *testing.T) {
	h := &testHandler{responseBody: `[]`}
	c, srv := newTestClient(h, "tok-123")
	defer srv.Close()

	if err := c.Get(context.Background(), PathAgents, nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if h.authorization != "Bearer tok-123" {
		t.Errorf("GET Authorization = %q, want 'Bearer tok-123'", h.authorization)
	}
	if h.contentType != "application/json" {
		t.Errorf("GET content-type = %q, want application/json", h.contentType)
	}
	if !strings.HasPrefix(h.requestID, "req-") {
		t.Errorf("X-Request-ID = %q, want req- prefix", h.requestID)
	}

	h.responseBody = `{"id":1,"name":"a"}`
	if err := c.Post(context.Background(), PathAgents, map[string]string{"name": "a"}, false, nil); err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if h.authorization != "Bearer tok-123" {
		t.Errorf("POST Authorization = %q, want 'Bearer tok-123'", h.authorization)
	}
}

func TestHTTPClient_NoTokenOmitsAuthorization(t *testing.T) {
	h := &testHandler{responseBody: `[]`}
	c, srv := newTestClient(h, "")
	defer srv.Close()

	if err := c.Get(context.Background(), PathJobs, nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if h.hasAuth {
		t.Errorf("Authorization header present (%q), want omitted", h.authorization)
	}
	if h.contentType != "application/json" {
		t.Errorf("content-type = %q, want application/json", h.contentType)
	}
}

func TestHTTPClient_TokenReadPerRequest(t *testing.T) {
	h := &testHandler{responseBody: `[]`}
	srv := httptest.NewServer(h)
	defer srv.Close()

	tokens := &mutableToken{}
	c := NewHTTPClient(srv.URL, tokens)

	_ = c.Get(context.Background(), PathAgents, nil)
	if h.hasAuth {
		t.Fatal("expected anonymous first request")
	}
	tokens.tok = "fresh"
	_ = c.Get(context.Background(), PathAgents, nil)
	if h.authorization != "Bearer fresh" {
		t.Errorf("Authorization = %q, want token saved after construction", h.authorization)
	}
}

// --- Body encoding ---

func TestHTTPClient_PostAsForm(t *testing.T) {
	h := &testHandler{responseBody: `{"ok":true}`}
	c, srv := newTestClient(h, "tok-123")
	defer srv.Close()

	data := url.Values{"username": {"admin@example.com"}, "password": {"p&ss word"}}
	if err := c.Post(context.Background(), "/form", data, true, nil); err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if h.contentType != "application/x-www-form-urlencoded" {
		t.Errorf("content-type = %q, want application/x-www-form-urlencoded", h.contentType)
	}
	if h.hasAuth {
		t.Errorf("form request carried Authorization %q", h.authorization)
	}
	got, err := url.ParseQuery(h.body)
	if err != nil {
		t.Fatalf("parsing form body %q: %v", h.body, err)
	}
	if got.Get("username") != "admin@example.com" || got.Get("password") != "p&ss word" {
		t.Errorf("form body = %v", got)
	}
}

func TestHTTPClient_PostAsFormFromMap(t *testing.T) {
	h := &testHandler{}
	c, srv := newTestClient(h, "")
	defer srv.Close()

	if err := c.Post(context.Background(), "/form", map[string]string{"a": "1"}, true, nil); err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if h.body != "a=1" {
		t.Errorf("body = %q, want a=1", h.body)
	}
}

func TestHTTPClient_PostAsFormRejectsStruct(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:0", nil)
	err := c.Post(context.Background(), "/form", struct{ A int }{1}, true, nil)
	if err == nil {
		t.Fatal("expected error for struct form body")
	}
}

func TestHTTPClient_PostAsJSON(t *testing.T) {
	h := &testHandler{responseBody: `{}`}
	c, srv := newTestClient(h, "")
	defer srv.Close()

	if err := c.Post(context.Background(), "/json", map[string]any{"n": 1, "s": "x"}, false, nil); err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if h.contentType != "application/json" {
		t.Errorf("content-type = %q, want application/json", h.contentType)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(h.body), &body); err != nil {
		t.Fatalf("unmarshaling request body %q: %v", h.body, err)
	}
	if body["n"] != float64(1) || body["s"] != "x" {
		t.Errorf("body = %v", body)
	}
}

func TestHTTPClient_DecodeError(t *testing.T) {
	h := &testHandler{responseBody: `not json`}
	c, srv := newTestClient(h, "")
	defer srv.Close()

	var out []model.Agent
	err := c.Get(context.Background(), PathAgents, &out)
	if err == nil || !strings.Contains(err.Error(), "decoding response") {
		t.Errorf("error = %v, want decoding error", err)
	}
}

// --- Typed operations ---

func TestHTTPClient_Health(t *testing.T) {
	h := &testHandler{responseBody: `{"status":"ok"}`}
	c, srv := newTestClient(h, "")
	defer srv.Close()

	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if h.method != http.MethodGet || h.path != PathHealth {
		t.Errorf("request = %s %s, want GET %s", h.method, h.path, PathHealth)
	}

	// Body is ignored, even when it is not JSON.
	h.responseBody = "fine"
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health() with plain body error = %v", err)
	}

	h.statusCode = http.StatusInternalServerError
	h.responseBody = "boom"
	if err := c.Health(context.Background()); err == nil {
		t.Fatal("Health() expected error on 500")
	}
}

func TestHTTPClient_Login(t *testing.T) {
	h := &testHandler{responseBody: `{"access_token":"jwt-abc","token_type":"bearer"}`}
	c, srv := newTestClient(h, "stale")
	defer srv.Close()

	tok, err := c.Login(context.Background(), model.Credentials{Username: "admin@example.com", Password: "admin"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if tok.AccessToken != "jwt-abc" || tok.TokenType != "bearer" {
		t.Errorf("token = %+v", tok)
	}
	if h.method != http.MethodPost || h.path != PathToken {
		t.Errorf("request = %s %s, want POST %s", h.method, h.path, PathToken)
	}
	if h.contentType != "application/x-www-form-urlencoded" {
		t.Errorf("content-type = %q", h.contentType)
	}
	form, _ := url.ParseQuery(h.body)
	if form.Get("username") != "admin@example.com" || form.Get("password") != "admin" {
		t.Errorf("form = %v", form)
	}
}

func TestHTTPClient_LoginFailure(t *testing.T) {
	h := &testHandler{statusCode: http.StatusUnauthorized, responseBody: `{"detail":"Invalid credentials"}`}
	c, srv := newTestClient(h, "")
	defer srv.Close()

	_, err := c.Login(context.Background(), model.Credentials{Username: "x", Password: "y"})
	if err == nil || err.Error() != `{"detail":"Invalid credentials"}` {
		t.Errorf("Login() error = %v", err)
	}
}

func TestHTTPClient_LoginEmptyToken(t *testing.T) {
	h := &testHandler{responseBody: `{"token_type":"bearer"}`}
	c, srv := newTestClient(h, "")
	defer srv.Close()

	if _, err := c.Login(context.Background(), model.Credentials{}); err == nil {
		t.Fatal("expected error when access_token is missing")
	}
}

func TestHTTPClient_Me(t *testing.T) {
	h := &testHandler{responseBody: `{"email":"admin@example.com","is_admin":true}`}
	c, srv := newTestClient(h, "tok")
	defer srv.Close()

	u, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if u.Email != "admin@example.com" || !u.IsAdmin {
		t.Errorf("user = %+v", u)
	}
	if h.path != PathMe {
		t.Errorf("path = %q, want %q", h.path, PathMe)
	}
}

func TestHTTPClient_ListAgents(t *testing.T) {
	h := &testHandler{responseBody: `[
		{"id": 1, "name": "alpha", "description": "first", "status": "idle"},
		{"id": 2, "name": "beta", "description": null, "status": "idle"}
	]`}
	c, srv := newTestClient(h, "")
	defer srv.Close()

	agents, err := c.ListAgents(context.Background())
	if err != nil {
		t.Fatalf("ListAgents() error = %v", err)
	}
	if h.method != http.MethodGet || h.path != PathAgents {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	if len(agents) != 2 {
		t.Fatalf("len(agents) = %d, want 2", len(agents))
	}
	if agents[0].Name != "alpha" || agents[0].Description != "first" {
		t.Errorf("agents[0] = %+v", agents[0])
	}
	if agents[1].Description != "" {
		t.Errorf("agents[1].Description = %q, want empty for null", agents[1].Description)
	}
}

func TestHTTPClient_CreateAgent(t *testing.T) {
	h := &testHandler{responseBody: `{"id": 9, "name": "agent-alpha", "description": "test agent", "status": "idle"}`}
	c, srv := newTestClient(h, "tok")
	defer srv.Close()

	agent, err := c.CreateAgent(context.Background(), &model.CreateAgentRequest{Name: "agent-alpha", Description: "test agent"})
	if err != nil {
		t.Fatalf("CreateAgent() error = %v", err)
	}
	if h.method != http.MethodPost || h.path != PathAgents {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	if h.body != `{"name":"agent-alpha","description":"test agent"}` {
		t.Errorf("body = %s", h.body)
	}
	if agent.ID != 9 {
		t.Errorf("agent.ID = %d, want 9", agent.ID)
	}
}

func TestHTTPClient_Scripts(t *testing.T) {
	h := &testHandler{responseBody: `[{"id": 4, "name": "backup", "path": "/opt/backup.sh"}]`}
	c, srv := newTestClient(h, "tok")
	defer srv.Close()

	scripts, err := c.ListScripts(context.Background())
	if err != nil {
		t.Fatalf("ListScripts() error = %v", err)
	}
	if len(scripts) != 1 || scripts[0].Path != "/opt/backup.sh" {
		t.Errorf("scripts = %+v", scripts)
	}
	if h.path != PathScripts {
		t.Errorf("path = %q", h.path)
	}

	h.responseBody = `{"id": 5, "name": "rotate", "path": "/opt/rotate.sh"}`
	s, err := c.CreateScript(context.Background(), &model.CreateScriptRequest{Name: "rotate", Path: "/opt/rotate.sh"})
	if err != nil {
		t.Fatalf("CreateScript() error = %v", err)
	}
	if s.ID != 5 {
		t.Errorf("script.ID = %d, want 5", s.ID)
	}
	if h.body != `{"name":"rotate","path":"/opt/rotate.sh","description":""}` {
		t.Errorf("body = %s", h.body)
	}
}

func TestHTTPClient_Jobs(t *testing.T) {
	h := &testHandler{responseBody: `[{"id": 1, "status": "scheduled", "last_run_at": null, "script_id": 5}]`}
	c, srv := newTestClient(h, "tok")
	defer srv.Close()

	jobs, err := c.ListJobs(context.Background())
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(jobs) != 1 || jobs[0].Status != model.JobScheduled || jobs[0].LastRunAt != "" {
		t.Errorf("jobs = %+v", jobs)
	}

	h.responseBody = `{"id": 2, "status": "scheduled"}`
	id := 5
	job, err := c.CreateJob(context.Background(), &model.CreateJobRequest{ScriptID: &id})
	if err != nil {
		t.Fatalf("CreateJob() error = %v", err)
	}
	if job.ID != 2 {
		t.Errorf("job.ID = %d, want 2", job.ID)
	}
	if h.path != PathJobs || h.body != `{"script_id":5}` {
		t.Errorf("request = %s body %s", h.path, h.body)
	}
}

func TestNewHTTPClient_TrimsTrailingSlash(t *testing.T) {
	c := NewHTTPClient("http://localhost:7999/", nil)
	if c.BaseURL() != "http://localhost:7999" {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
}
