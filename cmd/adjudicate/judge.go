package main

import (
	"github.com/spf13/cobra"

	"github.com/freeeve/referee/internal/casefile"
	"github.com/freeeve/referee/internal/logger"
	"github.com/freeeve/referee/pkg/diplomacy"
)

func newJudgeCmd(a *app) *cobra.Command {
	var phase, board string
	var plain, strict bool
	cmd := &cobra.Command{
		Use:   `judge "power: orders"...`,
		Short: "Judge orders given on the command line",
		Example: `  adjudicate judge "england: F lon S F wal - eng ; F wal - eng" "france: A bre - lon ; F eng C A bre - lon"
  adjudicate judge --phase retreat --board "r/Aatyr/Gmun/Gamun<boh/sil" "germany: A mun R ruh"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := diplomacy.ParsePhase(phase); err != nil {
				return err
			}
			c := &casefile.Case{Name: "command line", Phase: phase, Board: board, Orders: args}

			ctx := logger.WithBatchID(cmd.Context(), logger.NewBatchID())
			log := logger.ForBatch(ctx)
			runner := &casefile.Runner{
				Map:        a.m,
				Referee:    a.cfg.RefereeOptions(log),
				PlainJudge: plain,
				Strict:     strict,
				Log:        log,
			}
			res, err := runner.Run(ctx, c)
			if err != nil {
				return err
			}
			renderResult(cmd.OutOrStdout(), res, true)
			return nil
		},
	}
	cmd.Flags().StringVar(&phase, "phase", "movement", "movement, retreat or adjustment")
	cmd.Flags().StringVar(&board, "board", "", "starting position in DFEN")
	cmd.Flags().BoolVar(&strict, "strict", false, "void illegal orders before judging")
	cmd.Flags().BoolVar(&plain, "judge", false, "use a single judge pass instead of the referee")
	return cmd
}
