// Package newtypes provides validated name types used throughout hoard.
//
// All names share one lexicon: a non-empty string of alphanumerics,
// dash, underscore, or dot. The literal "config" is reserved because it
// doubles as a key in hoard entry tables.
package newtypes

import (
	"github.com/Shadow53/hoard-sub001/pkg/errors"
)

// HoardName is a validated name for a hoard.
type HoardName string

// EnvironmentName is a validated name for an environment.
type EnvironmentName string

// PileName is a validated name for a pile. The empty string is the
// anonymous pile of a single-pile hoard.
type PileName string

// NonEmptyPileName is a PileName that is guaranteed non-empty. Used
// where a pile must be named rather than anonymous.
type NonEmptyPileName string

var disallowedNames = []string{"config"}

// ValidateName enforces the shared name lexicon.
func ValidateName(name string) error {
	if name == "" {
		return errors.New(errors.ErrNameEmpty, "name cannot be empty")
	}
	for _, disallowed := range disallowedNames {
		if name == disallowed {
			return errors.Newf(errors.ErrNameDisallowed, "%q is a reserved name", name)
		}
	}
	for _, c := range name {
		if !isNameRune(c) {
			return errors.Newf(errors.ErrNameCharacters,
				"invalid name %q: must contain only alphanumeric characters, '-', '_', or '.'", name)
		}
	}
	return nil
}

func isNameRune(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-', c == '_', c == '.':
		return true
	}
	return false
}

// NewHoardName validates name and returns it as a HoardName.
func NewHoardName(name string) (HoardName, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return HoardName(name), nil
}

// NewEnvironmentName validates name and returns it as an EnvironmentName.
func NewEnvironmentName(name string) (EnvironmentName, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return EnvironmentName(name), nil
}

// NewPileName validates name and returns it as a PileName. The empty
// string is allowed and denotes the anonymous pile.
func NewPileName(name string) (PileName, error) {
	if name == "" {
		return PileName(""), nil
	}
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return PileName(name), nil
}

// NewNonEmptyPileName validates name and returns it as a NonEmptyPileName.
func NewNonEmptyPileName(name string) (NonEmptyPileName, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return NonEmptyPileName(name), nil
}

func (n HoardName) String() string        { return string(n) }
func (n EnvironmentName) String() string  { return string(n) }
func (n PileName) String() string         { return string(n) }
func (n NonEmptyPileName) String() string { return string(n) }

// IsAnonymous reports whether the pile name denotes the anonymous pile.
func (n PileName) IsAnonymous() bool { return n == "" }
