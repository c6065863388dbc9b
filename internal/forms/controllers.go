package forms

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/automa/internal/model"
	"github.com/alfredjeanlab/automa/internal/session"
	"github.com/alfredjeanlab/automa/internal/view"
)

// Creator posts create requests. client.Client satisfies it.
type Creator interface {
	CreateAgent(ctx context.Context, req *model.CreateAgentRequest) (*model.Agent, error)
	CreateScript(ctx context.Context, req *model.CreateScriptRequest) (*model.Script, error)
	CreateJob(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error)
}

// ListRefresher reloads one collection section. view.Refresher satisfies it.
type ListRefresher interface {
	RefreshAgents(ctx context.Context) error
	RefreshScripts(ctx context.Context) error
	RefreshJobs(ctx context.Context) error
}

// LoginManager performs the credential exchange. session.Manager satisfies it.
type LoginManager interface {
	Login(ctx context.Context, creds model.Credentials) (*session.Session, error)
}

// SessionRefresher reloads the session box and every collection after a
// login.
type SessionRefresher interface {
	RefreshSession(ctx context.Context) error
	RefreshAll(ctx context.Context) error
}

// StatusSurface shows the login status text.
type StatusSurface interface {
	ApplyLoginStatus(status string)
}

// Config wires Controllers to their collaborators. Notifier, Location and
// Logger are optional.
type Config struct {
	API      Creator
	Lists    ListRefresher
	Sessions LoginManager
	Status   StatusSurface
	After    SessionRefresher
	Notifier Notifier
	Location *time.Location
	Logger   *slog.Logger
}

// Controllers handles form submissions.
type Controllers struct {
	api      Creator
	lists    ListRefresher
	sessions LoginManager
	status   StatusSurface
	after    SessionRefresher
	notifier Notifier
	loc      *time.Location
	logger   *slog.Logger
}

// New returns Controllers configured by cfg.
func New(cfg Config) *Controllers {
	c := &Controllers{
		api:      cfg.API,
		lists:    cfg.Lists,
		sessions: cfg.Sessions,
		status:   cfg.Status,
		after:    cfg.After,
		notifier: cfg.Notifier,
		loc:      cfg.Location,
		logger:   cfg.Logger,
	}
	if c.notifier == nil {
		c.notifier = discard{}
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// SubmitAgent creates an agent from the "name" and "description" fields.
func (c *Controllers) SubmitAgent(ctx context.Context, f *Form) error {
	req := &model.CreateAgentRequest{Name: f.Get("name"), Description: f.Get("description")}
	if err := model.ValidateAgent(req); err != nil {
		return c.fail(f, MsgAgentFailed, err)
	}
	if _, err := c.api.CreateAgent(ctx, req); err != nil {
		return c.fail(f, MsgAgentFailed, err)
	}
	f.Reset()
	c.refreshed(view.SectionAgents, c.lists.RefreshAgents(ctx))
	return nil
}

// SubmitScript creates a script from the "name", "path" and "description"
// fields.
func (c *Controllers) SubmitScript(ctx context.Context, f *Form) error {
	req := &model.CreateScriptRequest{Name: f.Get("name"), Path: f.Get("path"), Description: f.Get("description")}
	if err := model.ValidateScript(req); err != nil {
		return c.fail(f, MsgScriptFailed, err)
	}
	if _, err := c.api.CreateScript(ctx, req); err != nil {
		return c.fail(f, MsgScriptFailed, err)
	}
	f.Reset()
	c.refreshed(view.SectionScripts, c.lists.RefreshScripts(ctx))
	return nil
}

// SubmitJob creates a job from the optional "script_id" and "when" fields.
func (c *Controllers) SubmitJob(ctx context.Context, f *Form) error {
	req, err := JobRequest(f, c.loc)
	if err != nil {
		return c.fail(f, MsgJobFailed, err)
	}
	if _, err := c.api.CreateJob(ctx, req); err != nil {
		return c.fail(f, MsgJobFailed, err)
	}
	f.Reset()
	c.refreshed(view.SectionJobs, c.lists.RefreshJobs(ctx))
	return nil
}

// SubmitLogin exchanges the "username" and "password" fields for a token.
// The status moves from pending to OK or to the failure text. After a
// successful login the session box and all lists are reloaded. A failed
// list reload turns the status to the failure text but keeps the saved
// token; a failed session reload only hides the session box.
func (c *Controllers) SubmitLogin(ctx context.Context, f *Form) error {
	c.status.ApplyLoginStatus(view.LoginPending)
	creds := model.Credentials{Username: f.Get("username"), Password: f.Get("password")}
	if _, err := c.sessions.Login(ctx, creds); err != nil {
		c.status.ApplyLoginStatus(view.LoginFailed)
		return c.fail(f, MsgLoginFailed, err)
	}
	c.status.ApplyLoginStatus(view.LoginOK)

	if c.after == nil {
		return nil
	}
	if err := c.after.RefreshSession(ctx); err != nil {
		c.logger.Warn("session refresh after login failed", "err", err)
	}
	if err := c.after.RefreshAll(ctx); err != nil {
		c.status.ApplyLoginStatus(view.LoginFailed)
		return c.fail(f, MsgLoginFailed, fmt.Errorf("loading collections: %w", err))
	}
	return nil
}

func (c *Controllers) fail(f *Form, msg string, err error) error {
	c.notifier.Notify(Notification{Form: f.Name, Message: msg, Err: err})
	return &SubmitError{Form: f.Name, Message: msg, Err: err}
}

func (c *Controllers) refreshed(s view.Section, err error) {
	if err != nil {
		c.logger.Warn("refresh after create failed", "section", string(s), "err", err)
	}
}
