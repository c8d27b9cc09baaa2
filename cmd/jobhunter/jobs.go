package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"jobhunter/internal/domain"
	"jobhunter/internal/store"
)

var (
	flagListStatus   string
	flagListCompany  string
	flagListMinScore float64
	flagListLimit    int
	flagStatusNotes  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored jobs, best match first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		opts := store.ListJobsOpts{
			Company: flagListCompany,
			Limit:   flagListLimit,
		}
		if flagListStatus != "" {
			status, err := domain.ParseStatus(flagListStatus)
			if err != nil {
				return err
			}
			opts.Status = status
		}
		if cmd.Flags().Changed("min-score") {
			opts.MinScore = &flagListMinScore
		}

		jobs, err := store.ListJobs(cmd.Context(), a.db.Pool, opts)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Println("No jobs found.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSCORE\tSTATUS\tCOMPANY\tTITLE\tLOCATION")
		for _, j := range jobs {
			score := "-"
			if j.MatchScore != nil {
				score = strconv.FormatFloat(*j.MatchScore, 'f', 0, 64)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				j.ID, score, j.Status, j.Company, j.Title, orDash(j.Location))
		}
		return tw.Flush()
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one stored job in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		j, err := store.GetJob(cmd.Context(), a.db.Pool, id)
		if err != nil {
			return err
		}

		fmt.Printf("%s — %s\n", j.Company, j.Title)
		fmt.Printf("Location:  %s\n", orDash(j.Location))
		fmt.Printf("URL:       %s\n", j.URL)
		fmt.Printf("Status:    %s\n", j.Status)
		if j.PostedDate != "" {
			fmt.Printf("Posted:    %s\n", j.PostedDate)
		}
		fmt.Printf("Scraped:   %s\n", j.ScrapedAt.Format("2006-01-02 15:04"))
		if j.MatchScore != nil {
			fmt.Printf("Score:     %.0f\n", *j.MatchScore)
			if j.MatchReasoning != "" {
				fmt.Printf("\n%s\n", j.MatchReasoning)
			}
		}
		if j.Notes != "" {
			fmt.Printf("\nNotes: %s\n", j.Notes)
		}
		if j.Description != "" {
			fmt.Printf("\n%s\n", j.Description)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <id> <new|reviewed|applied|rejected|interviewing>",
	Short: "Update a job's application status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		status, err := domain.ParseStatus(args[1])
		if err != nil {
			return err
		}

		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		if _, err := store.GetJob(cmd.Context(), a.db.Pool, id); err != nil {
			return err
		}
		if err := store.UpdateStatus(cmd.Context(), a.db.Pool, id, status, flagStatusNotes); err != nil {
			return err
		}
		fmt.Printf("Job %d is now %s.\n", id, status)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the stored jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		st, err := store.GetStats(cmd.Context(), a.db.Pool)
		if err != nil {
			return err
		}

		fmt.Printf("Total jobs:    %d\n", st.TotalJobs)
		fmt.Printf("Unscored:      %d\n", st.UnscoredCount)
		if st.AverageScore != nil {
			fmt.Printf("Average score: %.1f\n", *st.AverageScore)
		}
		if len(st.ByStatus) > 0 {
			fmt.Println("\nBy status:")
			for status, n := range st.ByStatus {
				fmt.Printf("  %-14s %d\n", status, n)
			}
		}
		if len(st.ByCompany) > 0 {
			fmt.Println("\nTop companies:")
			for company, n := range st.ByCompany {
				fmt.Printf("  %-30s %d\n", company, n)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd, showCmd, statusCmd, statsCmd)

	listCmd.Flags().StringVar(&flagListStatus, "status", "", "filter by status")
	listCmd.Flags().StringVar(&flagListCompany, "company", "", "filter by company")
	listCmd.Flags().Float64Var(&flagListMinScore, "min-score", 0, "only jobs at or above this score")
	listCmd.Flags().IntVar(&flagListLimit, "limit", 50, "maximum rows to print")

	statusCmd.Flags().StringVar(&flagStatusNotes, "notes", "", "notes to attach to the job")
}
