package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yungbote/caretaker-backend/internal/analytics"
	"github.com/yungbote/caretaker-backend/internal/platform/logger"
)

type rootOptions struct {
	file    string
	mode    string
	verbose bool
	log     *logger.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "capacityctl",
		Short:         "Score wellness check-in windows offline",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.log = logger.Nop()
			if opts.verbose {
				l, err := logger.New("development", "debug")
				if err != nil {
					return err
				}
				opts.log = l
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "YAML or JSON window file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	score := &cobra.Command{
		Use:   "score",
		Short: "Compute today's decision against the history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, opts)
		},
	}
	score.Flags().StringVar(&opts.mode, "mode", string(analytics.OperatingDefault), "operating mode: default or observer")

	root.AddCommand(
		score,
		windowCmd(opts, "patterns", "Detect recurring and chronic patterns", func(h analytics.HistoryWindow) any {
			return analytics.DetectPatterns(h)
		}),
		windowCmd(opts, "recovery", "Score how well the user rebounds from bad days", func(h analytics.HistoryWindow) any {
			return analytics.ComputeRecoveryScore(h)
		}),
		windowCmd(opts, "correlations", "Relate exercise, sleep and stress to capacity", func(h analytics.HistoryWindow) any {
			return analytics.FindCorrelations(h)
		}),
	)
	return root
}

func runScore(cmd *cobra.Command, opts *rootOptions) error {
	mode, err := analytics.ParseOperatingMode(opts.mode)
	if err != nil {
		return err
	}
	w, err := loadWindow(opts.file)
	if err != nil {
		return err
	}
	if w.today == nil {
		return fmt.Errorf("score needs a today entry")
	}
	opts.log.Debug("Scoring window", "history", len(w.history), "operating_mode", mode)
	d, err := analytics.ComputeDecision(w.today, w.history, mode)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), d)
}

func windowCmd(opts *rootOptions, use, short string, run func(analytics.HistoryWindow) any) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWindow(opts.file)
			if err != nil {
				return err
			}
			h := w.series()
			opts.log.Debug("Analyzing window", "command", use, "entries", len(h))
			return writeJSON(cmd.OutOrStdout(), run(h))
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
