package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"subtool/internal/plan"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var videoFlag string
	var audioFlags []string
	var subFlags []string
	var defaultAudioFlag int
	var defaultSubtitleFlag int
	var outFlag string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Assemble a new MKV from a video file plus extra tracks",
		Long: "Mux a base video together with additional audio and subtitle files\n" +
			"into a new MKV without re-encoding. Default-track ordinals count the\n" +
			"base video's embedded tracks first, then the attached files in order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			tools, err := ctx.newToolset()
			if err != nil {
				return err
			}

			pr, err := tools.prober.Probe(cmd.Context(), videoFlag)
			if err != nil {
				return err
			}

			req := plan.CreateRequest{
				VideoPath:     videoFlag,
				Video:         pr,
				AudioPaths:    audioFlags,
				SubtitlePaths: subFlags,
				Output:        outFlag,
			}
			if defaultAudioFlag >= 0 {
				req.DefaultAudio = &defaultAudioFlag
			}
			if defaultSubtitleFlag >= 0 {
				req.DefaultSubtitle = &defaultSubtitleFlag
			}

			p, err := plan.CreateMKV(req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printer := newProgressPrinter(out, filepath.Base(p.Output))
			err = tools.runner.RunFunc(cmd.Context(), p, printer.Set)
			printer.Finish()
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "created %s\n", p.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&videoFlag, "video", "v", "", "Base video file (required)")
	cmd.Flags().StringArrayVarP(&audioFlags, "audio", "a", nil, "Audio file to attach (repeatable)")
	cmd.Flags().StringArrayVarP(&subFlags, "sub", "s", nil, "Subtitle file to attach (repeatable)")
	cmd.Flags().IntVar(&defaultAudioFlag, "default-audio", -1, "Audio track ordinal to flag as default")
	cmd.Flags().IntVar(&defaultSubtitleFlag, "default-sub", -1, "Subtitle track ordinal to flag as default")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output MKV path (required)")
	_ = cmd.MarkFlagRequired("video")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
