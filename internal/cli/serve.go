package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/nuthan-ms/depgraph/internal/config"
	"github.com/nuthan-ms/depgraph/internal/httpserver"
	"github.com/nuthan-ms/depgraph/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP front-end (POST /analyze)",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		explicitConfig, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(".", explicitConfig, config.FlagOverrides{})
		if err != nil {
			return err
		}

		logger := logging.NewConsoleLogger(nil, logging.LevelInfo)
		srv := httpserver.New(cfg, logger)

		fmt.Printf("listening on %s\n", addr)
		return http.ListenAndServe(addr, srv.Handler())
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "address to listen on")
	serveCmd.Flags().StringP("config", "c", "", "path to an explicit config file")
	rootCmd.AddCommand(serveCmd)
}
