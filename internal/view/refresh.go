package view

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/automa/internal/model"
)

// Lister fetches the full collections. client.Client satisfies it.
type Lister interface {
	ListAgents(ctx context.Context) ([]model.Agent, error)
	ListScripts(ctx context.Context) ([]model.Script, error)
	ListJobs(ctx context.Context) ([]model.Job, error)
}

// Refresher re-fetches a collection and replaces its section on a Surface.
// On a fetch error the section is left untouched and the error returned.
type Refresher struct {
	lister  Lister
	surface Surface
}

// NewRefresher returns a Refresher that reads from lister and writes to surface.
func NewRefresher(lister Lister, surface Surface) *Refresher {
	return &Refresher{lister: lister, surface: surface}
}

func (r *Refresher) RefreshAgents(ctx context.Context) error {
	agents, err := r.lister.ListAgents(ctx)
	if err != nil {
		return fmt.Errorf("refreshing agents: %w", err)
	}
	r.surface.ApplyList(RenderAgents(agents))
	return nil
}

func (r *Refresher) RefreshScripts(ctx context.Context) error {
	scripts, err := r.lister.ListScripts(ctx)
	if err != nil {
		return fmt.Errorf("refreshing scripts: %w", err)
	}
	r.surface.ApplyList(RenderScripts(scripts))
	return nil
}

func (r *Refresher) RefreshJobs(ctx context.Context) error {
	jobs, err := r.lister.ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("refreshing jobs: %w", err)
	}
	r.surface.ApplyList(RenderJobs(jobs))
	return nil
}

// Refresh dispatches to the refresh function for s.
func (r *Refresher) Refresh(ctx context.Context, s Section) error {
	switch s {
	case SectionAgents:
		return r.RefreshAgents(ctx)
	case SectionScripts:
		return r.RefreshScripts(ctx)
	case SectionJobs:
		return r.RefreshJobs(ctx)
	default:
		return fmt.Errorf("unknown section %q", s)
	}
}
