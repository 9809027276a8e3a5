package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonvc/lbcoa/internal/client"
	"github.com/simonvc/lbcoa/internal/setup"
)

var setupArgs setup.Args

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run the setup wizard",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		res, err := c.CompleteSetup(context.Background(), setupArgs)
		if err != nil {
			return err
		}
		if res.Status != setup.StatusSuccess {
			printReport(res.Report)
			return fmt.Errorf("setup failed: %s", res.Message)
		}

		fmt.Println(res.Message)
		printReport(res.Report)
		return nil
	},
}

func init() {
	setupCmd.Flags().StringVar(&setupArgs.CompanyName, "company", "", "Company name")
	setupCmd.Flags().StringVar(&setupArgs.CompanyAbbr, "abbr", "", "Company abbreviation (derived from the name when empty)")
	setupCmd.Flags().StringVar(&setupArgs.Country, "country", "", "Country (defaults to Lebanon)")
	setupCmd.Flags().StringVar(&setupArgs.Currency, "currency", "", "Default currency")
	setupCmd.Flags().StringVar(&setupArgs.ChartOfAccounts, "chart", "", "Chart of accounts")
	setupCmd.Flags().StringVar(&setupArgs.Email, "email", "", "Administrator email")
	setupCmd.MarkFlagRequired("company")

	rootCmd.AddCommand(setupCmd)
}
