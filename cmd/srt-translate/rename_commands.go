package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"srttranslate/internal/rename"
)

func newRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "rename <file>",
		Short:       "Strip whitespace and unsafe characters from a file name",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := rename.File(args[0])
			if err != nil {
				return err
			}
			printRename(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newRenameAllCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "rename-all <dir>",
		Short:       "Rename every file in a directory",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := rename.Dir(args[0])
			out := cmd.OutOrStdout()
			var changed int
			for _, result := range results {
				if result.Changed {
					changed++
					printRename(out, result)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Renamed %d of %d files\n", changed, len(results))
			return nil
		},
	}
}

func printRename(out io.Writer, result rename.Result) {
	if !result.Changed {
		fmt.Fprintf(out, "%s already clean\n", filepath.Base(result.From))
		return
	}
	fmt.Fprintf(out, "%s -> %s\n", filepath.Base(result.From), filepath.Base(result.To))
}
