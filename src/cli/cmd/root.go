package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "clank",
	Short: "Check C and C++ code with clang-based tools",
	Long: `Clank runs clang-tidy and include-what-you-use over every file in a
project's compilation database, in parallel, and reports their findings as
one compiler-style diagnostic stream.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetReportTimestamp(false)
		log.SetPrefix("clank")
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print all executed commands")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file (default: .clank.yml or .clank.json in the project directory)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "clank: error: %v\n", err)
		return err
	}
	return nil
}
