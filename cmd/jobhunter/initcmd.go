package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data directory, default config and database",
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Printf("Config:   %s\n", filepath.Join(a.dataDir, "config.yml"))
		fmt.Printf("Database: %s\n", filepath.Join(a.dataDir, "jobhunter.db"))
		fmt.Println("\nEdit the config to add your sites, put your resume next to it,")
		fmt.Println("then store credentials with `jobhunter secret set` and run `jobhunter scrape`.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
