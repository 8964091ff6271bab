package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "convertbot",
	Short: "RapidFileConvert - chat-driven file conversion bot",
	Long: `Convertbot runs the RapidFileConvert chat bot: users declare a conversion
intent (PDF to Word, image format changes, PDF merge and compression, office
document rendering), then upload a file, and receive the converted result
back in the conversation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; environment variables win either way.
		_ = godotenv.Load()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the convertbot version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("convertbot version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
