package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuthan-ms/depgraph/internal/cache"
	"github.com/nuthan-ms/depgraph/internal/config"
	"github.com/nuthan-ms/depgraph/internal/logging"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the on-disk analysis cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entry from the analysis cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		explicitConfig, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(".", explicitConfig, config.FlagOverrides{})
		if err != nil {
			return err
		}
		c := cache.New(cfg.Cache.Dir, 0, 0, logging.NopLogger{})
		if err := c.Clear(); err != nil {
			return err
		}
		fmt.Printf("cleared cache at %s\n", cfg.Cache.Dir)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheClearCmd.Flags().StringP("config", "c", "", "path to an explicit config file")
	rootCmd.AddCommand(cacheCmd)
}
