package cli

import (
	"github.com/spf13/cobra"

	"github.com/nuthan-ms/depgraph/internal/config"
	"github.com/nuthan-ms/depgraph/internal/logging"
	"github.com/nuthan-ms/depgraph/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server (analyze_repository tool) over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		explicitConfig, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(".", explicitConfig, config.FlagOverrides{})
		if err != nil {
			return err
		}

		logger := logging.NewConsoleLogger(nil, logging.LevelInfo)
		srv := mcpserver.New(Version, cfg, logger)
		return srv.Run(cmd.Context())
	},
}

func init() {
	mcpCmd.Flags().StringP("config", "c", "", "path to an explicit config file")
	rootCmd.AddCommand(mcpCmd)
}
