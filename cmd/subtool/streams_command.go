package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subtool/internal/classify"
	"subtool/internal/ffprobe"
	"subtool/internal/language"
)

func newStreamsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "streams <file>",
		Short: "List the streams in a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tools, err := ctx.newToolset()
			if err != nil {
				return err
			}

			pr, err := tools.prober.Probe(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			headers := []string{"#", "Type", "Codec", "Language", "Title", "Forced", "Default", "Class"}
			rows := make([][]string, 0, len(pr.Streams))
			for _, stream := range pr.Streams {
				rel, _ := pr.RelativeIndex(stream.Index)
				lang := language.Normalize(stream.Language, stream.Title)
				display := ""
				if lang != "" && lang != "und" {
					display = fmt.Sprintf("%s (%s)", lang, language.DisplayName(lang))
				}
				class := ""
				if stream.CodecType == ffprobe.TypeSubtitle {
					class = string(classify.Subtitle(stream.Title, stream.Language, stream.Forced))
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d (%s:%d)", stream.Index, typeShorthand(stream.CodecType), rel),
					stream.CodecType,
					stream.CodecName,
					display,
					stream.Title,
					yesNo(stream.Forced),
					yesNo(stream.Default),
					class,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, pr.Path)
			fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignRight}))
			fmt.Fprintf(out, "%d streams, %d subtitles\n",
				len(pr.Streams), pr.CountType(ffprobe.TypeSubtitle))
			return nil
		},
	}
}

func typeShorthand(codecType string) string {
	switch codecType {
	case ffprobe.TypeVideo:
		return "v"
	case ffprobe.TypeAudio:
		return "a"
	case ffprobe.TypeSubtitle:
		return "s"
	case ffprobe.TypeData:
		return "d"
	case ffprobe.TypeAttachment:
		return "t"
	default:
		return "?"
	}
}
