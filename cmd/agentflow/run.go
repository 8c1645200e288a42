package main

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/encoding"
	"github.com/effective-security/agentflow/internal/app"
	"github.com/effective-security/agentflow/orchestrator"
	"github.com/effective-security/agentflow/store"
	"github.com/spf13/cobra"
)

type runFlags struct {
	format  string
	verbose bool
	stats   bool
	timeout time.Duration
}

func newRunCmd(flags *rootFlags) *cobra.Command {
	rf := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [query]",
		Short: "Run the agents once and print the outputs",
		Long: "Run the research, summary and email agents for the query.\n" +
			"The demo query is used when none is given:\n  " + orchestrator.DemoQuery,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			cfg.Agents.Verbose = rf.verbose

			enc, err := encoding.New(rf.format)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			if strings.TrimSpace(query) == "" {
				query = orchestrator.DemoQuery
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if rf.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, rf.timeout)
				defer cancel()
			}

			a, err := app.New(ctx, cfg, app.WithOutput(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			run, err := a.Run(ctx, orchestrator.SourceCLI, query)
			if err != nil {
				return err
			}
			return printRun(cmd, enc, rf, run)
		},
	}
	cmd.Flags().StringVarP(&rf.format, "format", "f", encoding.FormatText, "output format: "+strings.Join(encoding.Formats, "|"))
	cmd.Flags().BoolVarP(&rf.verbose, "verbose", "v", true, "print the reasoning trace to stderr")
	cmd.Flags().BoolVar(&rf.stats, "stats", false, "include the run stats in structured formats")
	cmd.Flags().DurationVar(&rf.timeout, "timeout", 0, "limit the run duration, for example 5m")
	return cmd
}

func printRun(cmd *cobra.Command, enc encoding.Encoder, rf *runFlags, run *store.Run) error {
	var v any = run
	switch rf.format {
	case "", encoding.FormatText, encoding.FormatMarkdown, "md":
		v = run.Result
	default:
		if !rf.stats {
			cp := *run
			cp.Stats = nil
			v = &cp
		}
	}

	out, err := enc.Marshal(v)
	if err != nil {
		return errors.WithMessage(err, "failed to encode result")
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
