// Package view turns collections fetched from the automa API into view
// models and applies them to a display surface.
//
// Rendering is pure: Render* functions take data and return values. A
// Surface is the only thing that holds display state, and Board is the
// in-memory Surface used by the CLI.
package view

import (
	"fmt"
	"strings"

	"github.com/alfredjeanlab/automa/internal/model"
)

// Section names one of the collection lists on the dashboard.
type Section string

const (
	SectionAgents  Section = "agents"
	SectionScripts Section = "scripts"
	SectionJobs    Section = "jobs"
)

// Sections lists every collection section in display order.
var Sections = []Section{SectionAgents, SectionScripts, SectionJobs}

// Entry is one rendered list line.
type Entry struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// ViewModel is the full contents of one section. Applying it replaces
// whatever the section showed before.
type ViewModel struct {
	Section Section `json:"section"`
	Entries []Entry `json:"entries"`
}

const sep = " • "

// RenderAgents renders agents as "<id> • <name> — <description>".
func RenderAgents(agents []model.Agent) ViewModel {
	vm := ViewModel{Section: SectionAgents, Entries: make([]Entry, 0, len(agents))}
	for _, a := range agents {
		vm.Entries = append(vm.Entries, Entry{
			ID:   a.ID,
			Text: fmt.Sprintf("%d%s%s — %s", a.ID, sep, a.Name, a.Description),
		})
	}
	return vm
}

// RenderScripts renders scripts as "<id> • <name> — <path>".
func RenderScripts(scripts []model.Script) ViewModel {
	vm := ViewModel{Section: SectionScripts, Entries: make([]Entry, 0, len(scripts))}
	for _, s := range scripts {
		vm.Entries = append(vm.Entries, Entry{
			ID:   s.ID,
			Text: fmt.Sprintf("%d%s%s — %s", s.ID, sep, s.Name, s.Path),
		})
	}
	return vm
}

// RenderJobs renders jobs as "<id> • status=<status>", followed by
// " • last=<last_run_at>" once the job has run.
func RenderJobs(jobs []model.Job) ViewModel {
	vm := ViewModel{Section: SectionJobs, Entries: make([]Entry, 0, len(jobs))}
	for _, j := range jobs {
		var b strings.Builder
		fmt.Fprintf(&b, "%d%sstatus=%s", j.ID, sep, j.Status)
		if j.LastRunAt != "" {
			b.WriteString(sep + "last=" + j.LastRunAt)
		}
		vm.Entries = append(vm.Entries, Entry{ID: j.ID, Text: b.String()})
	}
	return vm
}

// IndicatorClass is the style class of the health pill.
type IndicatorClass string

const (
	ClassOK  IndicatorClass = "ok"
	ClassErr IndicatorClass = "err"
)

// Indicator is the health pill.
type Indicator struct {
	Text  string         `json:"text"`
	Class IndicatorClass `json:"class"`
}

// RenderHealth maps the outcome of a health check onto the pill.
func RenderHealth(err error) Indicator {
	if err != nil {
		return Indicator{Text: "DOWN", Class: ClassErr}
	}
	return Indicator{Text: "OK", Class: ClassOK}
}

// SessionBox is the "logged in as" box. It is hidden for anonymous users.
type SessionBox struct {
	Visible bool   `json:"visible"`
	Text    string `json:"text,omitempty"`
}

// RenderSession renders the box for u; a nil user hides it.
func RenderSession(u *model.User) SessionBox {
	if u == nil {
		return SessionBox{}
	}
	text := "Prihlásený: " + u.Email
	if u.IsAdmin {
		text += " (admin)"
	}
	return SessionBox{Visible: true, Text: text}
}
