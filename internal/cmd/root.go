package cmd

import (
	"strings"

	"github.com/showrunner/showrunner/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "showrunner",
	Short: "Consensus-driven short-form content production",
	Long: `Showrunner turns a mission file into a produced piece of content.

A panel of specialist participants discusses each production phase until
consensus, the decisions drive a second-precise stage timeline, and
collaborating backends generate narration, audio, and clips that are
validated against the plan and combined into the final video.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/showrunner/showrunner.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("showrunner")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/showrunner")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SHOWRUNNER")
	// Replace dots with underscores for nested keys in env vars
	// e.g., SHOWRUNNER_DISCUSSION_MAX_PARALLEL for discussion.max_parallel
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
