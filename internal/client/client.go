// Package client provides a transport-agnostic interface for the automa
// service and an HTTP/JSON implementation that talks to its REST API.
package client

import (
	"context"

	"github.com/alfredjeanlab/automa/internal/model"
)

// API paths consumed by the client.
const (
	PathHealth  = "/api/v1/health"
	PathToken   = "/api/v1/auth/token"
	PathMe      = "/api/v1/users/me"
	PathAgents  = "/api/v1/agents"
	PathScripts = "/api/v1/scripts"
	PathJobs    = "/api/v1/jobs"
)

// TokenSource yields the bearer token to attach to a request. An empty
// string means the request is sent anonymously. It is consulted on every
// request, so a token saved after login is picked up immediately.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token returns the token itself.
func (s StaticToken) Token() string { return string(s) }

// Client is the interface that the session manager, view refreshers and form
// controllers use to talk to the service.
type Client interface {
	// Raw access
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, data any, asForm bool, out any) error

	// Health and identity
	Health(ctx context.Context) error
	Login(ctx context.Context, creds model.Credentials) (*model.Token, error)
	Me(ctx context.Context) (*model.User, error)

	// Collections
	ListAgents(ctx context.Context) ([]model.Agent, error)
	CreateAgent(ctx context.Context, req *model.CreateAgentRequest) (*model.Agent, error)
	ListScripts(ctx context.Context) ([]model.Script, error)
	CreateScript(ctx context.Context, req *model.CreateScriptRequest) (*model.Script, error)
	ListJobs(ctx context.Context) ([]model.Job, error)
	CreateJob(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error)
}
