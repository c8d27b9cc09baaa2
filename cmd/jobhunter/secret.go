package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jobhunter/internal/secrets"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage credentials in the OS keychain",
	Long: fmt.Sprintf(`Manage credentials in the OS keychain.

Known names: %s, %s, %s, %s, %s, %s.
Environment variables of the same names take precedence at runtime.`,
		secrets.KeyGeminiAPI, secrets.KeyGoogleSearch, secrets.KeyGoogleSearchCX,
		secrets.KeyUSAJobsAPI, secrets.KeyUSAJobsEmail, secrets.KeyIMAPPassword),
}

var secretSetCmd = &cobra.Command{
	Use:   "set <name> [value]",
	Short: "Store a secret (reads the value from stdin when omitted)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(_ *cobra.Command, args []string) error {
		name := args[0]

		var value string
		if len(args) == 2 {
			value = args[1]
		} else {
			fmt.Fprintf(os.Stderr, "Value for %s: ", name)
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return err
			}
			value = strings.TrimSpace(line)
		}

		if err := secrets.Set(name, value); err != nil {
			return err
		}
		fmt.Printf("Stored %s.\n", name)
		return nil
	},
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a secret from the keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := secrets.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s.\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(secretCmd)
	secretCmd.AddCommand(secretSetCmd, secretDeleteCmd)
}
