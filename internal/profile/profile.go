// Package profile stores named JIRA connection profiles: the URL, email
// and API token needed to talk to one JIRA instance.
package profile

import "fmt"

// Profile holds the connection settings for a single JIRA instance.
type Profile struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Email string `yaml:"email"`
	Token string `yaml:"token"`
}

// Validate checks that all fields required for an API call are present.
func (p Profile) Validate() error {
	if p.Name == "" {
		return ErrNameEmpty
	}
	if p.URL == "" {
		return fmt.Errorf("profile %q: JIRA URL is required", p.Name)
	}
	if p.Email == "" {
		return fmt.Errorf("profile %q: JIRA email is required", p.Name)
	}
	if p.Token == "" {
		return fmt.Errorf("profile %q: JIRA API token is required", p.Name)
	}
	return nil
}

// Store is the persistence contract for connection profiles.
//
// Every name returned by List has stored credentials and vice versa; a
// reader must never observe a registered name whose credentials are
// missing. Get reports absence through its bool, not an error; Delete of
// an unknown name is a no-op.
type Store interface {
	Add(p Profile) error
	Get(name string) (Profile, bool, error)
	List() ([]string, error)
	Delete(name string) error
	Update(p Profile) error
}
