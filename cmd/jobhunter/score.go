package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score every unscored stored job against the configured resume",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sum, err := a.engine(nil).Score(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Scored %d jobs (%d at or above %.0f), %d failed.\n",
			sum.Scored, sum.Qualified, a.cfg.Scoring.MinMatchScore, sum.Failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
