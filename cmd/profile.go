package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/dt-pm-tools/jira-summarizer/internal/profile"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage JIRA connection profiles",
	Long:  `Add, list, update, and delete named JIRA connection profiles (URL, email, API token). Profiles are stored in a local YAML file with 0600 permissions.`,
}

var profileAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new connection profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		p, err := promptProfile(profile.Profile{})
		if err != nil {
			return err
		}

		if err := openStore().Add(p); err != nil {
			if errors.Is(err, profile.ErrDuplicateProfile) {
				return fmt.Errorf("%w\nRun 'jira-summarizer profile update %s' to change its credentials", err, p.Name)
			}
			return err
		}

		fmt.Printf("Profile %q saved.\n", p.Name)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List connection profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		store := openStore()
		names, err := store.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No profiles found. Run 'jira-summarizer profile add' to create one.")
			return nil
		}
		for _, name := range names {
			p, ok, err := store.Get(name)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			fmt.Printf("%s\t%s\t%s\n", p.Name, p.URL, p.Email)
		}
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a connection profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		if err := openStore().Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted profile %q.\n", args[0])
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Update a profile's credentials",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		store := openStore()
		existing, ok, err := store.Get(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("profile %q not found", args[0])
		}

		p, err := promptProfile(existing)
		if err != nil {
			return err
		}
		p.Name = existing.Name

		if err := store.Update(p); err != nil {
			return err
		}
		fmt.Printf("Profile %q updated.\n", p.Name)
		return nil
	},
}

// promptProfile reads profile fields interactively, keeping any non-empty
// defaults from existing. The token is read with input hidden.
func promptProfile(existing profile.Profile) (profile.Profile, error) {
	reader := bufio.NewReader(os.Stdin)

	name := existing.Name
	if name == "" {
		fmt.Print("Profile name (e.g. Main Portal): ")
		line, _ := reader.ReadString('\n')
		name = strings.TrimSpace(line)
	}

	if existing.URL != "" {
		fmt.Printf("JIRA URL [%s]: ", existing.URL)
	} else {
		fmt.Print("JIRA URL (e.g., https://your-org.atlassian.net): ")
	}
	url, _ := reader.ReadString('\n')
	url = strings.TrimSpace(url)
	if url == "" {
		url = existing.URL
	}

	if existing.Email != "" {
		fmt.Printf("Email [%s]: ", existing.Email)
	} else {
		fmt.Print("Email: ")
	}
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		email = existing.Email
	}

	fmt.Print("API Token (input hidden): ")
	tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // newline after hidden input
	if err != nil {
		return profile.Profile{}, fmt.Errorf("reading token: %w", err)
	}
	token := strings.TrimSpace(string(tokenBytes))
	if token == "" {
		token = existing.Token
	}

	p := profile.Profile{Name: name, URL: url, Email: email, Token: token}
	if err := p.Validate(); err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}

func init() {
	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}
