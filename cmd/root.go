package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bibliz",
	Short: "Bible trivia quiz for the terminal",
	Long:  "Bibliz: an adaptive bible trivia quiz with AI-generated questions in six languages.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides store.db_path)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default: ./bibliz.yaml or $XDG_CONFIG_HOME/bibliz/bibliz.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(versionCmd)
}
