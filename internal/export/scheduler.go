package export

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Runner takes snapshots and delivers them to destinations.
type Runner struct {
	src          Source
	destinations []Destination
	opts         Options
	logger       *slog.Logger
}

// NewRunner returns a Runner exporting from src to destinations.
func NewRunner(src Source, destinations []Destination, opts Options, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{src: src, destinations: destinations, opts: opts, logger: logger}
}

// Once takes one snapshot and writes it to every destination. A failure at
// one destination does not stop delivery to the others; all failures are
// returned together.
func (r *Runner) Once(ctx context.Context) error {
	var buf bytes.Buffer
	if err := ExportJSONL(ctx, r.src, &buf, r.opts); err != nil {
		return err
	}
	data := buf.Bytes()

	var errs *multierror.Error
	for _, dest := range r.destinations {
		if err := dest.Write(ctx, data); err != nil {
			r.logger.Error("export destination write failed", "destination", dest.String(), "err", err)
			errs = multierror.Append(errs, err)
		}
	}
	r.logger.Debug("export completed", "destinations", len(r.destinations), "bytes", len(data))
	return errs.ErrorOrNil()
}

// Every exports immediately and then on each tick until ctx is done.
// Failed rounds are logged and retried on the next tick.
func (r *Runner) Every(ctx context.Context, interval time.Duration) error {
	if err := r.Once(ctx); err != nil {
		r.logger.Error("export failed", "err", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.Once(ctx); err != nil {
				r.logger.Error("export failed", "err", err)
			}
		}
	}
}
