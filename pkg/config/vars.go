package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/logging"
)

// envVarRegex matches ${VAR} references. Non-greedy so multiple
// references on one line each match separately; = and NUL are the only
// characters a variable name cannot contain.
var envVarRegex = regexp.MustCompile(`\$\{[^=\x00$]+?}`)

// ExpandEnv replaces every ${VAR} reference in s with the variable's
// value. Referencing an unset variable is an error naming it.
func ExpandEnv(s string) (string, error) {
	var unset string
	expanded := envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		value, ok := os.LookupEnv(name)
		if !ok {
			if unset == "" {
				unset = name
			}
			return match
		}
		return value
	})
	if unset != "" {
		return "", errors.Newf(errors.ErrConfigValid,
			"environment variable %q is not set", unset)
	}
	return expanded, nil
}

// ApplyDefaults sets each default for any variable not already set,
// expanding ${VAR} references in the default values first. Defaults
// may reference each other in any order: passes repeat until no
// further default applies. Remaining entries mean an unset variable
// (or a dependency loop) and are reported together.
func ApplyDefaults(defaults map[string]string) error {
	if len(defaults) == 0 {
		return nil
	}
	logger := logging.GetLogger("config")

	pending := make(map[string]string, len(defaults))
	for name, value := range defaults {
		pending[name] = value
	}

	for {
		progressed := false
		names := make([]string, 0, len(pending))
		for name := range pending {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if _, set := os.LookupEnv(name); set {
				delete(pending, name)
				progressed = true
				continue
			}
			value, err := ExpandEnv(pending[name])
			if err != nil {
				continue
			}
			if err := os.Setenv(name, value); err != nil {
				return errors.Wrapf(err, errors.ErrVarDefaults, "failed to set default for %q", name)
			}
			logger.Debug().Str("var", name).Msg("Applied environment variable default")
			delete(pending, name)
			progressed = true
		}

		if len(pending) == 0 {
			return nil
		}
		if !progressed {
			break
		}
	}

	remaining := make([]string, 0, len(pending))
	for name := range pending {
		remaining = append(remaining, name)
	}
	sort.Strings(remaining)
	for i, name := range remaining {
		remaining[i] = fmt.Sprintf("%s: %q", name, pending[name])
	}
	return errors.Newf(errors.ErrVarDefaults,
		"one or more env var defaults require an unset variable:\n%s",
		strings.Join(remaining, "\n"))
}
