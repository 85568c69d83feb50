package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"subtool/internal/batch"
	"subtool/internal/classify"
	"subtool/internal/fileutil"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Process many files sequentially",
	}
	batchCmd.AddCommand(newBatchStripCommand(ctx))
	batchCmd.AddCommand(newBatchExportCommand(ctx))
	batchCmd.AddCommand(newBatchHistoryCommand(ctx))
	return batchCmd
}

func newBatchStripCommand(ctx *commandContext) *cobra.Command {
	var keepFlag string
	var recursiveFlag bool

	cmd := &cobra.Command{
		Use:   "strip <file-or-dir>...",
		Short: "Strip subtitles from every video found",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
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
			return runBatch(ctx, cmd, batch.Request{Mode: batch.ModeStrip, Keep: keep}, args, recursiveFlag)
		},
	}

	cmd.Flags().StringVarP(&keepFlag, "keep", "k", "", "Subtitle class to keep: forced, full, all, or none (default: config batch.keep)")
	cmd.Flags().BoolVarP(&recursiveFlag, "recursive", "r", false, "Descend into subdirectories")
	return cmd
}

func newBatchExportCommand(ctx *commandContext) *cobra.Command {
	var keepFlag string
	var outFlag string
	var recursiveFlag bool

	cmd := &cobra.Command{
		Use:   "export <file-or-dir>...",
		Short: "Export subtitles from every video found",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// empty keep exports every stream; no config fallback here
			keep, err := classify.ParseKeep(keepFlag)
			if err != nil {
				return err
			}
			outDir := outFlag
			if outDir == "" {
				outDir = cfg.Output.Dir
			}
			req := batch.Request{Mode: batch.ModeExport, Keep: keep, OutputDir: outDir}
			return runBatch(ctx, cmd, req, args, recursiveFlag)
		},
	}

	cmd.Flags().StringVarP(&keepFlag, "keep", "k", "", "Limit exports to a subtitle class: forced or full (default: all)")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output directory (default: config output.dir or next to each source)")
	cmd.Flags().BoolVarP(&recursiveFlag, "recursive", "r", false, "Descend into subdirectories")
	return cmd
}

func runBatch(ctx *commandContext, cmd *cobra.Command, req batch.Request, args []string, recursive bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	tools, err := ctx.newToolset()
	if err != nil {
		return err
	}

	files, err := fileutil.CollectVideos(args, recursive)
	if err != nil {
		return err
	}
	req.Files = files

	store, err := batch.OpenStore(cfg.Batch.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	runner := batch.NewRunner(tools.prober, tools.runner, tools.replacer, store, tools.logger)

	// first interrupt stops between files, second one aborts the in-flight mux
	runCtx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; !ok {
			return
		}
		runner.Stop()
		if _, ok := <-sigCh; ok {
			cancel()
		}
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "processing %d files\n", len(files))

	var printer *progressPrinter
	current := ""
	summary, err := runner.Run(runCtx, req, func(evt batch.Event) {
		if evt.File != current {
			if printer != nil {
				printer.Finish()
			}
			current = evt.File
			printer = newProgressPrinter(out,
				fmt.Sprintf("[%d/%d] %s", evt.FileIndex, evt.TotalFiles, filepath.Base(evt.File)))
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
	fmt.Fprintf(out, "%d processed, %d skipped, %d failed\n",
		summary.Processed, summary.Skipped, summary.Failed)
	if summary.Stopped {
		fmt.Fprintln(out, "run stopped before completion")
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Failed, len(files))
	}
	return nil
}

func newBatchHistoryCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show past batch runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := batch.OpenStore(cfg.Batch.DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				files, err := store.RunFiles(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintf(out, "no files recorded for run %s\n", args[0])
					return nil
				}
				rows := make([][]string, 0, len(files))
				for _, f := range files {
					rows = append(rows, []string{
						fmt.Sprintf("%d", f.Position), f.Path, string(f.Status), f.Error,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "File", "Status", "Error"}, rows,
					[]columnAlignment{alignRight}))
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "no batch runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					string(run.Mode),
					run.Keep,
					fmt.Sprintf("%d", run.TotalFiles),
					fmt.Sprintf("%d", run.Processed),
					fmt.Sprintf("%d", run.Failed),
					run.StartedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Mode", "Keep", "Files", "Done", "Failed", "Started"}, rows,
				nil))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Number of runs to show")
	return cmd
}
