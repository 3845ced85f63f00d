// Package cmd provides the command-line interface for islet with
// configuration loading from flags, environment variables, and files.
//
// Configuration sources, highest priority first:
//  1. Command-line flags (--config, --log-level)
//  2. ISLET_CONFIG_FILE environment variable for a custom config path
//  3. Individual environment variables (ISLET_SERVER_PORT, ...)
//  4. Configuration file (.islet.yml in the current directory)
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "islet",
	Short: "Multi-renderer dispatch for server-rendered component islands",
	Long: `Islet routes server-side component renders to the renderer that owns
each component, using build-time tags, client directives, and probabilistic
probing over the registered renderers.

Quick Start:
  islet serve                     Start the resolution dev server
  islet renderers                 List registered renderers in probe order
  islet resolve --path App.jsx    Dry-run resolution for a component path`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .islet.yml, can also use ISLET_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig wires viper to the config file and ISLET_ environment variables.
// A missing config file is not an error; defaults apply.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("ISLET_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".islet")
	}

	viper.SetEnvPrefix("ISLET")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
