// Package export writes point-in-time JSONL snapshots of the automa
// collections and ships them to a destination.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/automa/internal/model"
)

// Source lists the collections. client.Client satisfies it.
type Source interface {
	ListAgents(ctx context.Context) ([]model.Agent, error)
	ListScripts(ctx context.Context) ([]model.Script, error)
	ListJobs(ctx context.Context) ([]model.Job, error)
}

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version     string    `json:"version"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source,omitempty"`
	AgentCount  int       `json:"agent_count"`
	ScriptCount int       `json:"script_count"`
	JobCount    int       `json:"job_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Options tunes a snapshot.
type Options struct {
	// Source is recorded in the header, typically the service URL.
	Source string
	// Now overrides the header timestamp.
	Now func() time.Time
}

// ExportJSONL fetches every collection from src and writes them to w as a
// header line followed by agent, script and job records, each sorted by id.
// Nothing is written if any fetch fails.
func ExportJSONL(ctx context.Context, src Source, w io.Writer, opts Options) error {
	agents, err := src.ListAgents(ctx)
	if err != nil {
		return fmt.Errorf("list agents: %w", err)
	}
	scripts, err := src.ListScripts(ctx)
	if err != nil {
		return fmt.Errorf("list scripts: %w", err)
	}
	jobs, err := src.ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}

	sort.Slice(agents, func(i, j int) bool { return agents[i].ID < agents[j].ID })
	sort.Slice(scripts, func(i, j int) bool { return scripts[i].ID < scripts[j].ID })
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:     "1",
		Type:        "header",
		Timestamp:   now().UTC(),
		Source:      opts.Source,
		AgentCount:  len(agents),
		ScriptCount: len(scripts),
		JobCount:    len(jobs),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	for _, a := range agents {
		if err := enc.Encode(record{Type: "agent", Data: a}); err != nil {
			return fmt.Errorf("encode agent %d: %w", a.ID, err)
		}
	}
	for _, s := range scripts {
		if err := enc.Encode(record{Type: "script", Data: s}); err != nil {
			return fmt.Errorf("encode script %d: %w", s.ID, err)
		}
	}
	for _, j := range jobs {
		if err := enc.Encode(record{Type: "job", Data: j}); err != nil {
			return fmt.Errorf("encode job %d: %w", j.ID, err)
		}
	}
	return nil
}
