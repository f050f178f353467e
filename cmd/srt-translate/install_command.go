package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"srttranslate/internal/install"
	"srttranslate/internal/progress"
)

func newInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "install",
		Short:       "Add an srt-translate alias to ~/.bashrc and ~/.zshrc",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("determine home directory: %w", err)
			}
			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("determine executable path: %w", err)
			}
			if resolved, err := filepath.EvalSymlinks(exe); err == nil {
				exe = resolved
			}

			results, err := install.Install(home, exe)
			out := cmd.OutOrStdout()
			colorize := progress.ShouldColorize(out)
			for _, r := range results {
				kind := progress.KindInfo
				switch r.Status {
				case install.StatusInstalled:
					kind = progress.KindOK
				case install.StatusMissing:
					kind = progress.KindWarn
				}
				fmt.Fprintln(out, progress.StatusLine(filepath.Base(r.Path), kind, string(r.Status), colorize))
			}
			return err
		},
	}
}
