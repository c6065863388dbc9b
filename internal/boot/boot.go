// Package boot wires the automa client components together and runs the
// start-up sequence: health check, session display, then a concurrent load
// of every collection.
package boot

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/alfredjeanlab/automa/internal/client"
	"github.com/alfredjeanlab/automa/internal/forms"
	"github.com/alfredjeanlab/automa/internal/session"
	"github.com/alfredjeanlab/automa/internal/view"
)

// Deps are the collaborators an App is built from. Notifier, Location and
// Logger are optional.
type Deps struct {
	Client   client.Client
	Sessions *session.Manager
	Surface  view.Surface
	Notifier forms.Notifier
	Location *time.Location
	Logger   *slog.Logger
}

// App is a wired client.
type App struct {
	client    client.Client
	sessions  *session.Manager
	surface   view.Surface
	refresher *view.Refresher
	forms     *forms.Controllers
	logger    *slog.Logger
}

// New wires the refresher and form controllers around d.
func New(d Deps) *App {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		client:    d.Client,
		sessions:  d.Sessions,
		surface:   d.Surface,
		refresher: view.NewRefresher(d.Client, d.Surface),
		logger:    logger,
	}
	a.forms = forms.New(forms.Config{
		API:      d.Client,
		Lists:    a.refresher,
		Sessions: d.Sessions,
		Status:   d.Surface,
		After:    a,
		Notifier: d.Notifier,
		Location: d.Location,
		Logger:   logger,
	})
	return a
}

// Client returns the API client the app was built with.
func (a *App) Client() client.Client { return a.client }

// Forms returns the form controllers.
func (a *App) Forms() *forms.Controllers { return a.forms }

// Refresher returns the per-collection refresher.
func (a *App) Refresher() *view.Refresher { return a.refresher }

// Sessions returns the session manager.
func (a *App) Sessions() *session.Manager { return a.sessions }

// Boot runs the start-up sequence once. Health and session problems only
// change what is displayed; the returned error covers the collection load.
func (a *App) Boot(ctx context.Context) error {
	_ = a.CheckHealth(ctx)
	if err := a.RefreshSession(ctx); err != nil {
		a.logger.Debug("session not restored", "err", err)
	}
	return a.RefreshAll(ctx)
}

// CheckHealth probes the service once and sets the health indicator.
func (a *App) CheckHealth(ctx context.Context) error {
	err := a.client.Health(ctx)
	a.surface.ApplyHealth(view.RenderHealth(err))
	if err != nil {
		a.logger.Debug("health check failed", "err", err)
	}
	return err
}

// RefreshSession shows the current user, or hides the session box when
// there is no valid session. Being anonymous is not an error.
func (a *App) RefreshSession(ctx context.Context) error {
	u, err := a.sessions.Refresh(ctx)
	if err != nil {
		a.surface.ApplySession(view.RenderSession(nil))
		if errors.Is(err, session.ErrAnonymous) {
			return nil
		}
		return err
	}
	a.surface.ApplySession(view.RenderSession(u))
	return nil
}

// RefreshAll reloads the three collections concurrently. Each section is
// applied as soon as its own fetch succeeds; a failed section keeps its
// previous contents. All failures are returned together.
func (a *App) RefreshAll(ctx context.Context) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs *multierror.Error
	)
	for _, s := range view.Sections {
		wg.Add(1)
		go func(s view.Section) {
			defer wg.Done()
			if err := a.refresher.Refresh(ctx, s); err != nil {
				mu.Lock()
				errs = multierror.Append(errs, err)
				mu.Unlock()
			}
		}(s)
	}
	wg.Wait()
	return errs.ErrorOrNil()
}

var _ forms.SessionRefresher = (*App)(nil)
