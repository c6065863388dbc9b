package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/automa/internal/events"
	"github.com/alfredjeanlab/automa/internal/ui"
	"github.com/alfredjeanlab/automa/internal/view"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Short:   "Show service health, the session and all collections",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := app.Boot(context.Background())
		if perr := printBoard(cmd.OutOrStdout()); perr != nil {
			return perr
		}
		return err
	},
}

func printBoard(w io.Writer) error {
	if jsonOutput {
		return printJSON(w, board.Snapshot())
	}
	return view.Print(w, board.Snapshot())
}

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Keep the dashboard up to date",
	GroupID: "views",
	Long: `Show the dashboard and redraw it whenever something changes.

With --nats-url (or AUTOMA_NATS_URL) the affected collections are reloaded
on change notifications; otherwise every collection is polled each
--interval.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")
		out := cmd.OutOrStdout()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := app.Boot(ctx); err != nil {
			logger.Warn("initial load incomplete", "err", err)
		}
		if err := printBoard(out); err != nil {
			return err
		}
		if once {
			return nil
		}

		refresh := func(ctx context.Context, collections []string) error {
			err := refreshCollections(ctx, collections)
			if !jsonOutput {
				fmt.Fprintf(out, "\n%s\n", ui.RenderMuted("── "+time.Now().Format("15:04:05")+" ──"))
			}
			if perr := printBoard(out); perr != nil {
				return perr
			}
			return err
		}

		if natsURL != "" {
			return watchNATS(ctx, refresh)
		}
		return events.Poll(ctx, interval, refresh, logger)
	},
}

// refreshCollections reloads the named sections, or all of them for nil.
func refreshCollections(ctx context.Context, collections []string) error {
	if collections == nil {
		return app.RefreshAll(ctx)
	}
	var errs *multierror.Error
	for _, c := range collections {
		if err := app.Refresher().Refresh(ctx, view.Section(c)); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

func watchNATS(ctx context.Context, refresh events.RefreshFunc) error {
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(events.AllSubjects)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	return events.Watch(ctx, ch, reconnectCh, events.DefaultDebounce, refresh, logger)
}

func init() {
	watchCmd.Flags().Duration("interval", cfg.WatchInterval, "poll interval when NATS is not configured")
	watchCmd.Flags().Bool("once", false, "print the dashboard once and exit")
}
