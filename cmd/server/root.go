package main

import (
	"io"
	"os"

	"github.com/dfryer1193/catalog/internal/config"
	"github.com/dfryer1193/catalog/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string

	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Product catalog server",
	Long: "Serves the product catalog as HTML pages and a JSON API,\n" +
		"storing products in SQLite and their images on disk.",
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
}

// Execute runs the command named on the command line
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (default $"+config.EnvConfigPath+")")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func initializeApp(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	closer, err := logging.Setup(loaded.Log, os.Stdout)
	if err != nil {
		return err
	}

	cfg = loaded
	logCloser = closer
	log.Debug().Str("env", cfg.Env).Str("command", cmd.Name()).Msg("Configuration loaded")
	return nil
}

func shutdownApp(cmd *cobra.Command, args []string) error {
	if logCloser == nil {
		return nil
	}
	return logCloser.Close()
}
