package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/automa/internal/export"
	"github.com/alfredjeanlab/automa/internal/ui"
	"github.com/alfredjeanlab/automa/internal/view"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the health of the automa service",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := app.CheckHealth(context.Background())
		ind := board.Snapshot().Health

		if jsonOutput {
			if perr := printJSON(cmd.OutOrStdout(), ind); perr != nil {
				return perr
			}
		} else {
			text := ui.RenderOK(ind.Text)
			if ind.Class == view.ClassErr {
				text = ui.RenderErr(ind.Text)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Health: %s\n", text)
		}

		if err != nil {
			return fmt.Errorf("unhealthy: %w", err)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Write a JSONL snapshot of all collections",
	GroupID: "system",
	Long: `Write a JSONL snapshot of agents, scripts and jobs.

The snapshot goes to stdout unless --output or --s3 is given. --s3 uploads
to AUTOMA_EXPORT_S3_BUCKET (key AUTOMA_EXPORT_S3_KEY). With --interval the
export repeats until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		toS3, _ := cmd.Flags().GetBool("s3")
		bucket, _ := cmd.Flags().GetString("s3-bucket")
		interval, _ := cmd.Flags().GetDuration("interval")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var dests []export.Destination
		if output != "" {
			dests = append(dests, &export.FileDestination{Path: output})
		}
		if toS3 || bucket != "" {
			if bucket == "" {
				bucket = cfg.ExportS3Bucket
			}
			d, err := export.NewS3Destination(ctx, export.S3Config{
				Bucket:   bucket,
				Key:      cfg.ExportS3Key,
				Region:   cfg.ExportS3Region,
				Endpoint: cfg.ExportS3Endpoint,
			})
			if err != nil {
				return fmt.Errorf("configuring S3 export: %w", err)
			}
			dests = append(dests, d)
		}
		if len(dests) == 0 {
			dests = append(dests, &export.WriterDestination{W: cmd.OutOrStdout(), Name: "stdout"})
		}

		runner := export.NewRunner(app.Client(), dests, export.Options{Source: apiURL}, logger)
		if interval > 0 {
			return runner.Every(ctx, interval)
		}
		if err := runner.Once(ctx); err != nil {
			return fmt.Errorf("exporting: %w", err)
		}
		for _, d := range dests {
			if _, ok := d.(*export.WriterDestination); !ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", d)
			}
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "write the snapshot to this file")
	exportCmd.Flags().Bool("s3", false, "upload the snapshot to the configured S3 bucket")
	exportCmd.Flags().String("s3-bucket", "", "upload to this bucket instead of AUTOMA_EXPORT_S3_BUCKET")
	exportCmd.Flags().Duration("interval", 0, "repeat the export at this interval")
}
