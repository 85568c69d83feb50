package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subtool/internal/ffbin"
)

func newBinsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "bins",
		Short: "Show which ffmpeg and ffprobe binaries are in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			resolver := ffbin.NewResolver(toolSettings(cfg))
			statuses := resolver.CheckTools(ffbin.FFmpeg, ffbin.FFprobe)

			rows := make([][]string, 0, len(statuses))
			missing := 0
			for _, status := range statuses {
				detail := status.Path
				if !status.Available {
					missing++
					detail = status.Detail
				}
				rows = append(rows, []string{
					status.Tool,
					string(status.Origin),
					yesNo(status.Available),
					detail,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Tool", "Origin", "Available", "Path"}, rows, nil))
			fmt.Fprintf(out, "prefer_bundled: %s\n", yesNo(cfg.Tools.PreferBundled))
			if missing > 0 {
				return fmt.Errorf("%d required tools missing", missing)
			}
			return nil
		},
	}
}
