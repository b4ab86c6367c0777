package profile

import "errors"

// Error definitions for profile stores.
var (
	ErrDuplicateProfile = errors.New("a profile with this name already exists")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrNameEmpty        = errors.New("profile name cannot be empty")
)
