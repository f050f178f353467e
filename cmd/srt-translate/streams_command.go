package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"srttranslate/internal/transcoder"
)

func newStreamsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "streams <media>",
		Short: "List the subtitle streams of a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			streams, err := transcoder.New(cfg.Transcoder, logger).ListSubtitleStreams(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(streams) == 0 {
				fmt.Fprintln(out, "No subtitle streams found")
				return nil
			}

			rows := make([][]string, 0, len(streams))
			for _, s := range streams {
				rows = append(rows, []string{
					strconv.Itoa(s.Position),
					strconv.Itoa(s.Index),
					s.Language(),
					s.CodecName,
					s.Tags.Title,
					yesNo(s.IsDefault()),
					yesNo(s.IsForced()),
				})
			}
			fmt.Fprintln(out, renderTable([]tableColumn{
				{Header: "Stream", AlignRight: true},
				{Header: "Index", AlignRight: true},
				{Header: "Language"},
				{Header: "Codec"},
				{Header: "Title"},
				{Header: "Default"},
				{Header: "Forced"},
			}, rows))
			fmt.Fprintln(out, "Use `translate --stream <Stream>` to pick one.")
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
