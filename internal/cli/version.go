package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the depgraph version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("depgraph " + Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
