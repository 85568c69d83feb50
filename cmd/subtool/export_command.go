package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"subtool/internal/batch"
	"subtool/internal/plan"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var streamFlag int
	var outFlag string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export subtitle streams to sidecar files",
		Long: "Export subtitle streams from a video container. Text subtitles are\n" +
			"converted to SRT; image subtitles are copied in their native format.\n" +
			"By default every subtitle stream is exported; --stream selects one by\n" +
			"its relative subtitle index (the s:N ordinal shown by `subtool streams`).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tools, err := ctx.newToolset()
			if err != nil {
				return err
			}

			outDir := outFlag
			if outDir == "" {
				outDir = cfg.Output.Dir
			}

			pr, err := tools.prober.Probe(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var rels []int
			if streamFlag >= 0 {
				rels = []int{streamFlag}
			} else {
				for _, stream := range pr.Subtitles() {
					if rel, ok := pr.RelativeIndex(stream.Index); ok {
						rels = append(rels, rel)
					}
				}
				if len(rels) == 0 {
					return fmt.Errorf("%s has no subtitle streams", pr.Path)
				}
			}

			out := cmd.OutOrStdout()
			for _, rel := range rels {
				ep, err := plan.ExportSubtitle(pr, rel, outDir)
				if err != nil {
					return err
				}
				printer := newProgressPrinter(out, filepath.Base(ep.Text.Output))
				written, err := batch.ExportStream(cmd.Context(), tools.runner, tools.logger, ep, printer.Set)
				printer.Finish()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "exported s:%d -> %s\n", rel, written)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&streamFlag, "stream", "s", -1, "Relative subtitle index to export (default: all)")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output directory (default: config output.dir or the source directory)")
	return cmd
}
