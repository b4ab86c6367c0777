package cmd

import (
	"fmt"
	"os"

	"github.com/dt-pm-tools/jira-summarizer/internal/config"
	"github.com/dt-pm-tools/jira-summarizer/internal/profile"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	appConfig config.Config
	version   = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:     "jira-summarizer",
	Short:   "AI summaries for JIRA tickets",
	Long:    `Fetches a JIRA ticket, flattens its description and comments to plain text, and asks an AI model for a one-line summary, an actionable task list, and a suggested closing comment. Connection profiles for multiple JIRA instances are stored locally.`,
	Version: version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.jira-summarizer.yaml)")
}

// loadConfig loads application configuration. Commands call this before
// touching profiles or clients.
func loadConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	appConfig = cfg
	return nil
}

// openStore returns the profile store from the configured path.
func openStore() profile.Store {
	path := appConfig.ProfilesPath
	if path == "" {
		path = profile.DefaultPath()
	}
	return profile.NewFileStore(path)
}

// ensureUserID returns the installation id, generating and persisting one
// on first use.
func ensureUserID() (string, error) {
	if appConfig.UserID != "" {
		return appConfig.UserID, nil
	}
	id, err := config.NewUserID()
	if err != nil {
		return "", err
	}
	appConfig.UserID = id
	if err := config.Save(appConfig, cfgFile); err != nil {
		return "", fmt.Errorf("persisting user id: %w", err)
	}
	return id, nil
}
