package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/simonvc/lbcoa/internal/client"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Browse charts of accounts",
}

// chart list
var (
	chartListCountry  string
	chartListStandard bool
)

var chartListCmd = &cobra.Command{
	Use:   "list",
	Short: "List charts available for a country",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		names, err := c.ListCharts(context.Background(), chartListCountry, chartListStandard)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

// chart children
var chartChildrenParent string

var chartChildrenCmd = &cobra.Command{
	Use:   "children [chart]",
	Short: "List the direct children of a chart node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		nodes, err := c.ChartChildren(context.Background(), args[0], chartChildrenParent)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			marker := " "
			if n.Expandable {
				marker = "+"
			}
			fmt.Printf("%s %s\n", marker, n.Value)
		}
		return nil
	},
}

// chart labels
var chartLabelsLanguage string

var chartLabelsCmd = &cobra.Command{
	Use:   "labels [company]",
	Short: "Show a company's translated account labels",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		lang := chartLabelsLanguage
		if !cmd.Flags().Changed("language") {
			lang = cfg.Charts.DefaultLanguage
		}
		res, err := c.AccountLabels(context.Background(), args[0], lang)
		if err != nil {
			return err
		}
		if !res.Enabled {
			fmt.Println("Labels are not enabled for this company.")
			return nil
		}

		ids := make([]string, 0, len(res.Labels))
		for id := range res.Labels {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Printf("%-48s %s\n", id, res.Labels[id].Label)
		}
		return nil
	},
}

func init() {
	chartListCmd.Flags().StringVar(&chartListCountry, "country", "Lebanon", "Country")
	chartListCmd.Flags().BoolVar(&chartListStandard, "with-standard", false, "Include the standard chart")

	chartChildrenCmd.Flags().StringVar(&chartChildrenParent, "parent", "", "Parent node (empty for roots)")

	chartLabelsCmd.Flags().StringVar(&chartLabelsLanguage, "language", "en", "Label language (en, ar, fr)")

	chartCmd.AddCommand(chartListCmd)
	chartCmd.AddCommand(chartChildrenCmd)
	chartCmd.AddCommand(chartLabelsCmd)

	rootCmd.AddCommand(chartCmd)
}
