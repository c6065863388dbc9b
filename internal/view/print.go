package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/alfredjeanlab/automa/internal/ui"
)

var sectionTitles = map[Section]string{
	SectionAgents:  "Agents",
	SectionScripts: "Scripts",
	SectionJobs:    "Jobs",
}

// Print writes snap to w as a plain-text dashboard. Styling goes through
// the ui package, which honours ForceNoColor.
func Print(w io.Writer, snap Snapshot) error {
	var b strings.Builder

	health := snap.Health.Text
	switch snap.Health.Class {
	case ClassOK:
		health = ui.RenderOK(health)
	case ClassErr:
		health = ui.RenderErr(health)
	}
	if health == "" {
		health = ui.RenderMuted("?")
	}
	fmt.Fprintf(&b, "%s %s\n", ui.RenderAccent("API:"), health)

	if snap.Session.Visible {
		fmt.Fprintf(&b, "%s\n", snap.Session.Text)
	} else {
		fmt.Fprintf(&b, "%s\n", ui.RenderMuted("(not logged in)"))
	}
	if snap.LoginStatus != "" {
		status := snap.LoginStatus
		if status == LoginFailed {
			status = ui.RenderErr(status)
		}
		fmt.Fprintf(&b, "%s %s\n", ui.RenderAccent("Login:"), status)
	}

	for _, s := range Sections {
		entries, ok := snap.Lists[s]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n%s %s\n", ui.RenderAccent(sectionTitles[s]), ui.RenderMuted(fmt.Sprintf("(%d)", len(entries))))
		if len(entries) == 0 {
			fmt.Fprintf(&b, "  %s\n", ui.RenderMuted("none"))
			continue
		}
		for _, e := range entries {
			fmt.Fprintf(&b, "  %s\n", e.Text)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
