package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/automa/internal/boot"
	"github.com/alfredjeanlab/automa/internal/client"
	"github.com/alfredjeanlab/automa/internal/config"
	"github.com/alfredjeanlab/automa/internal/events"
	"github.com/alfredjeanlab/automa/internal/export"
	"github.com/alfredjeanlab/automa/internal/forms"
	"github.com/alfredjeanlab/automa/internal/session"
	"github.com/alfredjeanlab/automa/internal/ui"
	"github.com/alfredjeanlab/automa/internal/view"
)

// annotationPublishes marks commands that announce created records on NATS.
const annotationPublishes = "automa/publishes"

var (
	apiURL     string
	stateDir   string
	natsURL    string
	jsonOutput bool
	verbose    bool
	noColor    bool

	cfg, cfgErr = loadConfig()

	logger    *slog.Logger
	board     *view.Board
	publisher events.Publisher
	app       *boot.App
)

// loadConfig reads the environment. On error it still returns usable
// defaults so flags can be registered; the error is reported when a
// command runs.
func loadConfig() (*config.Config, error) {
	c, err := config.Load()
	if err != nil {
		return &config.Config{
			URL:            config.DefaultURL,
			WatchInterval:  5 * time.Second,
			Location:       time.Local,
			ExportS3Key:    export.DefaultS3Key,
			ExportS3Region: export.DefaultS3Region,
		}, err
	}
	return c, nil
}

var rootCmd = &cobra.Command{
	Use:           "automa <command>",
	Short:         "CLI client for the automa job and agent service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgErr != nil {
			return fmt.Errorf("loading configuration: %w", cfgErr)
		}
		logger = newLogger(verbose)
		slog.SetDefault(logger)
		if noColor || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}

		publisher = events.NoopPublisher{}
		if natsURL != "" && cmd.Annotations[annotationPublishes] == "true" {
			p, err := events.NewNATSPublisher(natsURL)
			if err != nil {
				logger.Warn("change notifications disabled", "err", err)
			} else {
				publisher = p
			}
		}

		cfg.StateDir = stateDir
		storage := session.NewFileStorage(cfg.SessionPath())
		tokens := session.NewTokens(storage)
		httpClient := client.NewHTTPClient(apiURL, tokens, client.WithLogger(logger))
		api := &publishingClient{Client: httpClient, pub: publisher, logger: logger}

		board = view.NewBoard()
		app = boot.New(boot.Deps{
			Client:   api,
			Sessions: session.NewManager(tokens, httpClient, logger),
			Surface:  board,
			Notifier: forms.NotifierFunc(func(n forms.Notification) {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.RenderErr(n.Message))
			}),
			Location: cfg.Location,
			Logger:   logger,
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if publisher != nil {
			_ = publisher.Close()
		}
	},
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "url", cfg.URL, "automa service URL")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", cfg.StateDir, "directory holding the session token")
	rootCmd.PersistentFlags().StringVar(&natsURL, "nats-url", cfg.NATSURL, "NATS server for change notifications")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "session", Title: "Session:"},
		&cobra.Group{ID: "collections", Title: "Collections:"},
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Session
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	// Collections
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(scriptsCmd)
	rootCmd.AddCommand(jobsCmd)

	// Views
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(watchCmd)

	// System
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
