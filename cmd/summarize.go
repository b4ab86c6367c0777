package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dt-pm-tools/jira-summarizer/internal/ai"
	"github.com/dt-pm-tools/jira-summarizer/internal/config"
	"github.com/dt-pm-tools/jira-summarizer/internal/jira"
	"github.com/dt-pm-tools/jira-summarizer/internal/profile"
	"github.com/dt-pm-tools/jira-summarizer/internal/summarize"
	"github.com/spf13/cobra"
)

var (
	profileName string
	outputDir   string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <issue-key>",
	Short: "Fetch a JIRA issue and generate an AI summary",
	Long:  `Fetches a JIRA issue by key, flattens its description and comments, and generates an AI summary with actionable tasks. Writes a markdown report to stdout by default, or to a file with --output-dir. The AI provider key is read from the environment (OPENAI_API_KEY, JIRA_AI_KEY, or Jira_AI_Key).`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		issueKey := strings.ToUpper(args[0])

		p, err := selectProfile()
		if err != nil {
			return err
		}

		// The provider credential is checked before any network call.
		apiKey, ok := config.ResolveAPIKey()
		if !ok {
			return fmt.Errorf("AI provider API key is not configured: set %s",
				strings.Join(config.APIKeyEnvVars, ", "))
		}

		userID, err := ensureUserID()
		if err != nil {
			return err
		}

		jiraClient := jira.NewClient(p)
		if d := appConfig.Timeout(); d > 0 {
			jiraClient.SetTimeout(d)
		}
		aiClient := ai.NewClient(apiKey,
			ai.WithModel(appConfig.Model),
			ai.WithEndpoint(appConfig.Endpoint),
			ai.WithTimeout(appConfig.Timeout()))

		orch := summarize.New(jiraClient, aiClient)
		outcome, err := orch.Summarize(context.Background(), p, issueKey, userID)
		if err != nil {
			return fmt.Errorf("summarizing issue %s: %w", issueKey, err)
		}

		report := summarize.Report(outcome)

		if outputDir != "" {
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			filename := filepath.Join(outputDir, issueKey+".md")
			if err := os.WriteFile(filename, []byte(report), 0644); err != nil {
				return fmt.Errorf("writing file: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Written to %s\n", filename)
		} else {
			fmt.Print(report)
		}

		return nil
	},
}

// selectProfile resolves which connection profile to use: the --profile
// flag when given, otherwise the only registered profile.
func selectProfile() (p profile.Profile, err error) {
	store := openStore()

	if profileName != "" {
		got, ok, err := store.Get(profileName)
		if err != nil {
			return p, err
		}
		if !ok {
			return p, fmt.Errorf("profile %q not found. Run 'jira-summarizer profile list'", profileName)
		}
		return got, nil
	}

	names, err := store.List()
	if err != nil {
		return p, err
	}
	switch len(names) {
	case 0:
		return p, fmt.Errorf("no profiles found. Run 'jira-summarizer profile add' first")
	case 1:
		got, ok, err := store.Get(names[0])
		if err != nil {
			return p, err
		}
		if !ok {
			return p, fmt.Errorf("profile %q not found", names[0])
		}
		return got, nil
	default:
		return p, fmt.Errorf("multiple profiles found (%s): choose one with --profile", strings.Join(names, ", "))
	}
}

func init() {
	summarizeCmd.Flags().StringVarP(&profileName, "profile", "p", "", "connection profile to use (required with multiple profiles)")
	summarizeCmd.Flags().StringVar(&outputDir, "output-dir", "", "write report to <dir>/<KEY>.md instead of stdout")
	rootCmd.AddCommand(summarizeCmd)
}
