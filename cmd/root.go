package cmd

import (
	"fmt"
	"os"

	"github.com/dt-pm-tools/mdpub/internal/config"
	"github.com/dt-pm-tools/mdpub/internal/logging"
	"github.com/dt-pm-tools/mdpub/internal/notify"
	"github.com/dt-pm-tools/mdpub/internal/pipeline"
	"github.com/dt-pm-tools/mdpub/internal/target"
	"github.com/dt-pm-tools/mdpub/internal/vcs"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	appConfig config.Config
	logs      *logging.Provider
	version   = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:     "mdpub",
	Short:   "Publish local markdown drafts into a static-site repository",
	Long:    `A CLI tool that turns a locally written markdown draft into a post for a static-site content repository, copies referenced local images alongside it, and optionally commits the result.`,
	Version: version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.mdpub.yaml)")
}

// loadConfig loads and validates configuration and sets up logging.
func loadConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w\nRun 'mdpub config' to fix it", err)
	}
	provider, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	appConfig = cfg
	logs = provider
	return nil
}

// newPublisher assembles the publish pipeline from the loaded config.
func newPublisher() *pipeline.Publisher {
	notifier := notify.NewLogNotifier(logs.GetLogger("notify"))
	return &pipeline.Publisher{
		Config:   appConfig,
		Registry: target.DefaultRegistry(),
		Deps: target.Deps{
			Committer: &vcs.Runner{Notifier: notifier},
			Notifier:  notifier,
		},
		Notifier: notifier,
		Logger:   logs.GetLogger("publish"),
	}
}
