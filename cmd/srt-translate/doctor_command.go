package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"srttranslate/internal/preflight"
	"srttranslate/internal/progress"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, ports, URLs, and external tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := progress.ShouldColorize(out)
			var problems int

			for _, line := range progress.SectionHeader("Environment", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, progress.StatusLine("Mode", progress.KindInfo, cfg.Deployment.Mode, colorize))
			var checks []preflight.Result
			if ctx.runDoctor != nil {
				checks = ctx.runDoctor(cmd.Context(), cfg)
			}
			for _, r := range checks {
				kind := progress.KindOK
				if !r.Passed {
					kind = progress.KindError
					problems++
				}
				fmt.Fprintln(out, progress.StatusLine(r.Name, kind, r.Detail, colorize))
			}

			fmt.Fprintln(out)
			for _, line := range progress.SectionHeader("Dependencies", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, s := range preflight.CheckSystemDeps(cfg) {
				switch {
				case s.Available:
					fmt.Fprintln(out, progress.StatusLine(s.Name, progress.KindOK, s.Command, colorize))
				case s.Optional:
					fmt.Fprintln(out, progress.StatusLine(s.Name, progress.KindWarn, s.Detail, colorize))
				default:
					problems++
					fmt.Fprintln(out, progress.StatusLine(s.Name, progress.KindError, s.Detail, colorize))
				}
			}

			if problems > 0 {
				return fmt.Errorf("doctor found %d problem(s)", problems)
			}
			return nil
		},
	}
}
