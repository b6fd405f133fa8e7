package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vodarc/internal/archive"
	"vodarc/internal/ytdlp"
)

func newArchiveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <url>",
		Short: "Download and normalize one VOD into the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			logger, err := ctx.buildLogger(cfg)
			if err != nil {
				return err
			}

			tool, err := ytdlp.New(cfg.Tools.YTDLPBinary, cfg.Tools.FFmpegDir, cfg.Tools.ConcurrentFragments, logger)
			if err != nil {
				return err
			}

			result, err := archive.New(cfg, tool, logger).Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Archived to %s\n", result.Dir)

			rows := make([][]string, 0, len(result.Stages))
			for _, stage := range result.Stages {
				state := "ran"
				if stage.Skipped {
					state = "skipped"
				}
				rows = append(rows, []string{stage.Name, state, stage.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Stage", "State", "Detail"}, rows, nil))
			return nil
		},
	}
}
