package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jobhunter/internal/domain"
)

var flagScoreAfter bool

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape every configured source and store what passes the filters",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		eng := a.engine(nil)
		rep, err := eng.Scrape(ctx, func(j domain.Job) {
			fmt.Printf("  + %s — %s (%s)\n", j.Company, j.Title, orDash(j.Location))
		})
		if err != nil {
			return err
		}

		fmt.Printf("\nScraped %d jobs, saved %d.\n", rep.Found, rep.Saved)
		for _, s := range rep.Degraded {
			fmt.Printf("  degraded (no browser): %s\n", s)
		}
		for _, f := range rep.Failures {
			fmt.Printf("  skipped: %s\n", f)
		}

		if flagScoreAfter {
			sum, err := eng.Score(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Scored %d jobs (%d at or above %.0f), %d failed.\n",
				sum.Scored, sum.Qualified, a.cfg.Scoring.MinMatchScore, sum.Failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	scrapeCmd.Flags().BoolVar(&flagScoreAfter, "score", false, "score new jobs against the resume after scraping")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
