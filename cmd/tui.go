package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/client"
	"github.com/simonvc/lbcoa/internal/logger"
	"github.com/simonvc/lbcoa/internal/tui"
)

var (
	tuiChart   string
	tuiCompany string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse a chart of accounts and a company's labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		if !cmd.Flags().Changed("server") {
			// Keep zap off the alt screen.
			log = logger.Nop()
			embedded, closeFn, err := startEmbedded("127.0.0.1:8888")
			if err != nil {
				return err
			}
			defer closeFn()
			c = embedded
		}

		app := tui.NewApp(c, tuiChart, tuiCompany)
		p := tea.NewProgram(app, tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	tuiCmd.Flags().StringVar(&tuiChart, "chart", chart.LebaneseChartName, "Chart to browse")
	tuiCmd.Flags().StringVar(&tuiCompany, "company", "", "Company whose accounts and labels to show")
	rootCmd.AddCommand(tuiCmd)
}
