package config

import "os"

// APIKeyEnvVars is the ordered list of environment variables accepted for
// the AI provider credential. The first non-empty value wins. The mixed-
// case name is kept for compatibility with existing deployments.
var APIKeyEnvVars = []string{"OPENAI_API_KEY", "Jira_AI_Key", "JIRA_AI_KEY"}

// ResolveAPIKey returns the provider API key from the environment, with
// false when none of the accepted variables is set. Absence is a
// configuration error for the request that needed the key, never a reason
// to crash the process.
func ResolveAPIKey() (string, bool) {
	for _, name := range APIKeyEnvVars {
		if value := os.Getenv(name); value != "" {
			return value, true
		}
	}
	return "", false
}
