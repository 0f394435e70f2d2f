package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dgrsdt/journals/internal/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "journals",
	Short: "Look up journal rankings and convert ranking PDFs",
	Long: `journals finds a journal's classification in the DGRSDT ranking directory
(Category A, then the Category B subcategories) by approximate title match,
and converts tables printed in PDF documents into JSON rows.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides log.level from config")
}

// loadConfig reads configuration and applies the log level
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(parsed)
	log.Debug("Configuration loaded successfully")

	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
