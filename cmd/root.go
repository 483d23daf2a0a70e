// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"fmt"
	"os"

	"github.com/bascanada/admintail/pkg/log/client/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "admintail",
	Short: "Terminal console for a backend's admin log feed and status",
	Long: `admintail loads the recent logs of a backend's admin API, follows its
live log stream and shows the backend status.`,
	PreRun: onCommandStart,
	Run: func(cmd *cobra.Command, args []string) {
		// Check if config exists before showing generic help
		if _, err := os.Stat(config.ResolvePath(configPath)); os.IsNotExist(err) && backendURL == "" {
			fmt.Println("Welcome to admintail!")
			fmt.Println("\nNo configuration found.")
			fmt.Println("   Run 'admintail configure' to point it at your backend.")
			fmt.Println("\nOr use 'admintail --help' to see all available options.")
			return
		}
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file, by default $ADMINTAIL_CONFIG or ~/.admintail/config.yaml")
	rootCmd.PersistentFlags().StringVar(&logger.Path, "logging-path", "", "file to output logs of the application")
	rootCmd.PersistentFlags().StringVar(&logger.Level, "logging-level", "", "logging level to output INFO WARN ERROR DEBUG TRACE")
	rootCmd.PersistentFlags().BoolVar(&logger.Stdout, "logging-stdout", false, "output appplication log in the stdout")

	// Register completion for --logging-level flag
	_ = rootCmd.RegisterFlagCompletionFunc("logging-level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(tailCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reinitCmd)
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(versionCommand)
}
