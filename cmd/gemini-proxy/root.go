package main

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/awantoch/gemini-proxy/config"
	"github.com/awantoch/gemini-proxy/utils"
)

var (
	configPath string
	debug      bool
)

// NewRootCmd creates the root 'gemini-proxy' command with persistent flags and subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "gemini-proxy",
		Short:        "Forward Gemini generateContent calls with a server-held API key",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to config file (JSON or YAML)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// Load environment variables from .env file, if present
		_ = godotenv.Load()
		if debug {
			utils.SetMode("debug")
		}
	}

	rootCmd.AddCommand(newServeCmd(), newLambdaCmd(), newConfigCmd())
	return rootCmd
}

// loadConfig reads configPath. A missing file at the default path falls back to
// environment configuration; a missing file the user asked for is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err == nil {
		if cfg.Log.Level != "" && !debug {
			utils.SetMode(cfg.Log.Level)
		}
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		utils.Debug("no config file at %s, using environment", configPath)
		return config.FromEnv()
	}
	return nil, err
}
