package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/automa/internal/forms"
	"github.com/alfredjeanlab/automa/internal/ui"
	"github.com/alfredjeanlab/automa/internal/view"
)

var agentsCmd = &cobra.Command{
	Use:     "agents",
	Short:   "List agents",
	GroupID: "collections",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		agents, err := app.Client().ListAgents(context.Background())
		if err != nil {
			return fmt.Errorf("listing agents: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), agents)
		}
		printEntries(cmd.OutOrStdout(), view.RenderAgents(agents), "agents")
		return nil
	},
}

var scriptsCmd = &cobra.Command{
	Use:     "scripts",
	Short:   "List scripts",
	GroupID: "collections",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scripts, err := app.Client().ListScripts(context.Background())
		if err != nil {
			return fmt.Errorf("listing scripts: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), scripts)
		}
		printEntries(cmd.OutOrStdout(), view.RenderScripts(scripts), "scripts")
		return nil
	},
}

var jobsCmd = &cobra.Command{
	Use:     "jobs",
	Short:   "List jobs",
	GroupID: "collections",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := app.Client().ListJobs(context.Background())
		if err != nil {
			return fmt.Errorf("listing jobs: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), jobs)
		}
		printEntries(cmd.OutOrStdout(), view.RenderJobs(jobs), "jobs")
		return nil
	},
}

var agentCreateCmd = &cobra.Command{
	Use:         "create",
	Short:       "Register an agent",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationPublishes: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		f := forms.NewForm(forms.FormAgent, formFromFlags(cmd, "name", "description"))
		return submitCreate(cmd, view.SectionAgents, "agent", func() error {
			return app.Forms().SubmitAgent(context.Background(), f)
		})
	},
}

var scriptCreateCmd = &cobra.Command{
	Use:         "create",
	Short:       "Register a script",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationPublishes: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		f := forms.NewForm(forms.FormScript, formFromFlags(cmd, "name", "path", "description"))
		return submitCreate(cmd, view.SectionScripts, "script", func() error {
			return app.Forms().SubmitScript(context.Background(), f)
		})
	},
}

var jobCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Schedule a job",
	Long: `Schedule a job.

--when takes a local date-time (YYYY-MM-DDTHH:MM) in the zone given by
AUTOMA_TIMEZONE, or the system zone. It is sent to the service in UTC.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationPublishes: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		f := forms.NewForm(forms.FormJob, formFromFlags(cmd, "script-id", "when"))
		return submitCreate(cmd, view.SectionJobs, "job", func() error {
			return app.Forms().SubmitJob(context.Background(), f)
		})
	},
}

// formFromFlags copies the named string flags into form fields. Dashes in
// flag names become underscores; unset flags are left out.
func formFromFlags(cmd *cobra.Command, names ...string) url.Values {
	values := url.Values{}
	for _, name := range names {
		if !cmd.Flags().Changed(name) {
			continue
		}
		v, _ := cmd.Flags().GetString(name)
		values.Set(strings.ReplaceAll(name, "-", "_"), v)
	}
	return values
}

// submitCreate runs submit and shows the section it reloads. When the
// reload fails the record still exists, so only a warning replaces the list.
func submitCreate(cmd *cobra.Command, s view.Section, noun string, submit func() error) error {
	reloaded := false
	board.OnListChange(func(changed view.Section) {
		if changed == s {
			reloaded = true
		}
	})
	defer board.OnListChange(nil)

	if err := submit(); err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if !reloaded {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.RenderWarn(fmt.Sprintf("Created %s, but the %s list could not be reloaded; run `automa %s`", noun, s, s)))
		if jsonOutput {
			return printJSON(w, map[string]any{"section": s, "reloaded": false})
		}
		fmt.Fprintf(w, "Created %s\n", noun)
		return nil
	}
	entries := board.List(s)
	if jsonOutput {
		return printJSON(w, view.ViewModel{Section: s, Entries: entries})
	}
	fmt.Fprintf(w, "Created %s\n\n", noun)
	printEntries(w, view.ViewModel{Section: s, Entries: entries}, string(s))
	return nil
}

func init() {
	agentCreateCmd.Flags().String("name", "", "agent name (required)")
	agentCreateCmd.Flags().String("description", "", "free-form description")
	agentsCmd.AddCommand(agentCreateCmd)

	scriptCreateCmd.Flags().String("name", "", "script name (required)")
	scriptCreateCmd.Flags().String("path", "", "path of the script on the agent (required)")
	scriptCreateCmd.Flags().String("description", "", "free-form description")
	scriptsCmd.AddCommand(scriptCreateCmd)

	jobCreateCmd.Flags().String("script-id", "", "id of the script to run")
	jobCreateCmd.Flags().String("when", "", "local date-time to run at, e.g. 2024-01-01T10:00")
	jobsCmd.AddCommand(jobCreateCmd)
}
