package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"subtool/internal/batch"
	"subtool/internal/classify"
)

func newStripCommand(ctx *commandContext) *cobra.Command {
	var keepFlag string

	cmd := &cobra.Command{
		Use:   "strip <file>...",
		Short: "Remove subtitle streams from containers in place",
		Long: "Rewrite each container keeping only the requested subtitle class and\n" +
			"replace the original file. The original is parked as a .bak backup for\n" +
			"the duration of the swap and restored if anything goes wrong.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tools, err := ctx.newToolset()
			if err != nil {
				return err
			}

			keepValue := keepFlag
			if keepValue == "" {
				keepValue = cfg.Batch.Keep
			}
			keep, err := classify.ParseKeep(keepValue)
			if err != nil {
				return err
			}

			runner := batch.NewRunner(tools.prober, tools.runner, tools.replacer, nil, tools.logger)
			out := cmd.OutOrStdout()

			var printer *progressPrinter
			current := ""
			summary, err := runner.Run(cmd.Context(), batch.Request{
				Mode:  batch.ModeStrip,
				Files: args,
				Keep:  keep,
			}, func(evt batch.Event) {
				if evt.File != current {
					if printer != nil {
						printer.Finish()
					}
					current = evt.File
					printer = newProgressPrinter(out, filepath.Base(evt.File))
				}
				printer.Set(evt.Percent)
			})
			if printer != nil {
				printer.Finish()
			}
			if err != nil {
				return err
			}

			printResults(out, summary)
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", summary.Failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&keepFlag, "keep", "k", "", "Subtitle class to keep: forced, full, all, or none (default: config batch.keep)")
	return cmd
}

func printResults(out io.Writer, summary batch.Summary) {
	for _, res := range summary.Results {
		switch res.Status {
		case batch.StatusDone:
			fmt.Fprintf(out, "done    %s\n", res.File)
		case batch.StatusSkipped:
			fmt.Fprintf(out, "skipped %s (no subtitle streams)\n", res.File)
		case batch.StatusFailed:
			fmt.Fprintf(out, "failed  %s: %v\n", res.File, res.Err)
		}
	}
}
