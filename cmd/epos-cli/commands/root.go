package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool
)

var rootCmd = &cobra.Command{
	Use:   "epos-cli",
	Short: "epos-cli fetches fair price shop sales and ration card transactions from the ePoS portal.",
	// errors are logged by the commands themselves
	SilenceUsage: true,
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "epos.json5", "The json5 config file, epos.local.json5 next to it overrides it.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug information and dump http messages.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
