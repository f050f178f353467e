package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"srttranslate/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var pruneDays int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent translation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if pruneDays > 0 {
				removed, err := store.Prune(cmd.Context(), time.Now().AddDate(0, 0, -pruneDays))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Pruned %d runs older than %d days\n", removed, pruneDays)
			}

			if runID != "" {
				run, err := store.Get(cmd.Context(), runID)
				if err != nil {
					return fmt.Errorf("run %s: %w", runID, err)
				}
				printRun(out, run)
				return nil
			}

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					shortRunID(run.RunID),
					run.Mode,
					run.State,
					strconv.Itoa(run.Entries),
					run.InputPath,
					runDuration(run),
					run.Error,
				})
			}
			fmt.Fprintln(out, renderTable([]tableColumn{
				{Header: "Started"},
				{Header: "Run"},
				{Header: "Mode"},
				{Header: "State"},
				{Header: "Entries", AlignRight: true},
				{Header: "Input"},
				{Header: "Duration", AlignRight: true},
				{Header: "Error"},
			}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show the details of a single run")
	cmd.Flags().IntVar(&pruneDays, "prune-days", 0, "Delete runs older than this many days before listing")
	return cmd
}

func printRun(out io.Writer, run *history.Run) {
	fmt.Fprintf(out, "Run:      %s\n", run.RunID)
	fmt.Fprintf(out, "State:    %s\n", run.State)
	fmt.Fprintf(out, "Mode:     %s\n", run.Mode)
	fmt.Fprintf(out, "Input:    %s\n", run.InputPath)
	fmt.Fprintf(out, "Output:   %s\n", run.OutputPath)
	fmt.Fprintf(out, "Entries:  %d\n", run.Entries)
	fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "Duration: %s\n", runDuration(*run))
	if run.Error != "" {
		fmt.Fprintf(out, "Error:    %s\n", run.Error)
	}
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runDuration(run history.Run) string {
	if run.FinishedAt == nil {
		return "-"
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
}
