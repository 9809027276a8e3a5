package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonvc/lbcoa/internal/chart"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the Lebanese chart into the unverified charts directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := chart.Install(cfg.Charts.UnverifiedDir)
		if err != nil {
			return err
		}
		log.Infow("chart installed", "path", path)
		fmt.Printf("Installed %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
