package invoice

import (
	"errors"
	"fmt"
	"strings"
)

// Profile selects which extraction rules a pass applies.
type Profile string

const (
	// ProfileBasic extracts only the total, invoice number and issue date.
	ProfileBasic Profile = "basic"
	// ProfileFull extracts the complete record including address and item blocks.
	ProfileFull Profile = "full"
)

// ErrUnknownProfile is returned by ParseProfile for unrecognized names.
var ErrUnknownProfile = errors.New("unknown extraction profile")

// ParseProfile resolves a profile name, ignoring case and surrounding space.
func ParseProfile(name string) (Profile, error) {
	switch Profile(strings.ToLower(strings.TrimSpace(name))) {
	case ProfileBasic:
		return ProfileBasic, nil
	case ProfileFull:
		return ProfileFull, nil
	}
	return "", fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownProfile, name, ProfileBasic, ProfileFull)
}

func (p Profile) String() string { return string(p) }

// captures reports whether the profile runs section, address and item capture.
func (p Profile) captures() bool { return p == ProfileFull }

