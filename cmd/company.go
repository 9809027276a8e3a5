package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonvc/lbcoa/internal/client"
	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/provision"
)

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Manage companies",
}

// company create
var (
	coCreateName     string
	coCreateAbbr     string
	coCreateCountry  string
	coCreateCurrency string
	coCreateChart    string
	coCreateAllow    bool
)

var companyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create and provision a company",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		res, err := c.CreateCompany(context.Background(), client.CreateCompanyRequest{
			Name:                  coCreateName,
			Abbr:                  coCreateAbbr,
			Country:               coCreateCountry,
			DefaultCurrency:       coCreateCurrency,
			ChartOfAccounts:       coCreateChart,
			AllowUnverifiedCharts: coCreateAllow,
		})
		if err != nil {
			return err
		}

		co := res.Company
		fmt.Printf("Company created: %s (%s) %s %s\n", co.Name, co.Abbr, co.Country, co.DefaultCurrency)
		printReport(res.Report)
		return nil
	},
}

// company get
var companyGetCmd = &cobra.Command{
	Use:   "get [name]",
	Short: "Get company details and defaults",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		co, err := c.GetCompany(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Name:     %s\n", co.Name)
		fmt.Printf("Abbr:     %s\n", co.Abbr)
		fmt.Printf("Country:  %s\n", co.Country)
		fmt.Printf("Currency: %s (%s)\n", co.DefaultCurrency, ledger.CurrencyName(co.DefaultCurrency))
		fmt.Printf("Chart:    %s\n", co.ChartOfAccounts)
		fmt.Printf("Created:  %s\n", co.CreatedAt.Format("2006-01-02 15:04:05"))
		if len(co.Defaults) > 0 {
			fmt.Println()
			for _, f := range co.Defaults.Fields() {
				fmt.Printf("%-40s %s\n", f, co.Defaults[f])
			}
		}
		return nil
	},
}

// company provision
var coProvisionAllow bool

var companyProvisionCmd = &cobra.Command{
	Use:   "provision [name]",
	Short: "Re-run provisioning for an existing company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		res, err := c.ProvisionCompany(context.Background(), args[0], provision.Flags{AllowUnverifiedCharts: coProvisionAllow})
		if err != nil {
			return err
		}
		printReport(res.Report)
		return nil
	},
}

// company accounts
var (
	coAccountsRoot   string
	coAccountsType   string
	coAccountsNumber string
)

var companyAccountsCmd = &cobra.Command{
	Use:   "accounts [name]",
	Short: "List a company's accounts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		accounts, err := c.ListAccounts(context.Background(), args[0], client.AccountQuery{
			AccountNumber: coAccountsNumber,
			RootType:      coAccountsRoot,
			AccountType:   coAccountsType,
		})
		if err != nil {
			return err
		}

		if len(accounts) == 0 {
			fmt.Println("No accounts found.")
			return nil
		}

		fmt.Printf("%-8s %-44s %-10s %-20s %s\n", "NUMBER", "NAME", "ROOT", "TYPE", "GROUP")
		fmt.Printf("%-8s %-44s %-10s %-20s %s\n", "------", "----", "----", "----", "-----")
		for _, a := range accounts {
			name := a.AccountName
			if len(name) > 42 {
				name = name[:42] + ".."
			}
			group := ""
			if a.IsGroup {
				group = "yes"
			}
			fmt.Printf("%-8s %-44s %-10s %-20s %s\n", a.AccountNumber, name, a.RootType, a.AccountType, group)
		}
		return nil
	},
}

func printReport(r *provision.Report) {
	if r == nil {
		return
	}
	fmt.Printf("\nProvisioning run %s (lebanese: %v)\n", r.RunID, r.Lebanese)
	for _, s := range r.Steps {
		switch {
		case s.Skipped:
			fmt.Printf("  skip %-28s %s\n", s.Name, s.Message)
		case s.OK:
			fmt.Printf("  ok   %-28s %s\n", s.Name, s.Duration)
		default:
			fmt.Printf("  FAIL %-28s %s: %s\n", s.Name, s.Kind, s.Message)
		}
	}
}

func init() {
	companyCreateCmd.Flags().StringVar(&coCreateName, "name", "", "Company name")
	companyCreateCmd.Flags().StringVar(&coCreateAbbr, "abbr", "", "Company abbreviation")
	companyCreateCmd.Flags().StringVar(&coCreateCountry, "country", "Lebanon", "Country")
	companyCreateCmd.Flags().StringVar(&coCreateCurrency, "currency", "", "Default currency ("+strings.Join(ledger.CurrencyCodes(), ", ")+")")
	companyCreateCmd.Flags().StringVar(&coCreateChart, "chart", "", "Chart of accounts")
	companyCreateCmd.Flags().BoolVar(&coCreateAllow, "allow-unverified", true, "Allow charts from the unverified directory")
	companyCreateCmd.MarkFlagRequired("name")
	companyCreateCmd.MarkFlagRequired("abbr")

	companyProvisionCmd.Flags().BoolVar(&coProvisionAllow, "allow-unverified", true, "Allow charts from the unverified directory")

	companyAccountsCmd.Flags().StringVar(&coAccountsRoot, "root-type", "", "Filter by root type")
	companyAccountsCmd.Flags().StringVar(&coAccountsType, "account-type", "", "Filter by account type")
	companyAccountsCmd.Flags().StringVar(&coAccountsNumber, "number", "", "Filter by account number")

	companyCmd.AddCommand(companyCreateCmd)
	companyCmd.AddCommand(companyGetCmd)
	companyCmd.AddCommand(companyProvisionCmd)
	companyCmd.AddCommand(companyAccountsCmd)

	rootCmd.AddCommand(companyCmd)
}
