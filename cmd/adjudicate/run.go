package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/freeeve/referee/internal/casefile"
	"github.com/freeeve/referee/internal/logger"
	"github.com/freeeve/referee/pkg/diplomacy"
)

func newRunCmd(a *app) *cobra.Command {
	var plain, strict, verbose bool
	cmd := &cobra.Command{
		Use:   "run <case.yaml|dir>...",
		Short: "Judge scenario files and check their expected verdicts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, err := casefile.LoadAll(args...)
			if err != nil {
				return err
			}

			ctx := logger.WithBatchID(cmd.Context(), logger.NewBatchID())
			log := logger.ForBatch(ctx)
			runner := &casefile.Runner{
				Map:        a.m,
				Referee:    a.cfg.RefereeOptions(log),
				PlainJudge: plain,
				Strict:     strict,
				Log:        log,
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, c := range cases {
				res, err := runner.Run(ctx, c)
				if err != nil {
					return err
				}
				logger.LogOrders(log, c.Name, diplomacy.FormatDSON(res.Orders))
				if !res.Passed() {
					failed++
				}
				renderResult(out, res, verbose || !res.Passed())
			}
			renderSummary(out, len(cases)-failed, failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d cases failed", failed, len(cases))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "judge", false, "use a single judge pass instead of the referee")
	cmd.Flags().BoolVar(&strict, "strict", false, "void illegal orders before judging")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the verdict table for passing cases too")
	return cmd
}
