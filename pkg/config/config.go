// Package config loads and validates the hoard configuration file.
//
// The file declares environments (predicates over the host),
// an exclusivity relation between them, default values for environment
// variables, and the hoards themselves. Loading applies env var
// defaults, expands ${VAR} references in pile paths, and converts the
// TOML surface into the typed model consumed by the commands.
package config

import (
	"bytes"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/Shadow53/hoard-sub001/pkg/environment"
	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/filesystem"
	"github.com/Shadow53/hoard-sub001/pkg/hoard"
	"github.com/Shadow53/hoard-sub001/pkg/logging"
	"github.com/Shadow53/hoard-sub001/pkg/newtypes"
	"github.com/Shadow53/hoard-sub001/pkg/paths"
)

// Config is the validated, fully-expanded configuration.
type Config struct {
	Exclusivity  [][]newtypes.EnvironmentName
	Environments []environment.Environment
	Hoards       map[newtypes.HoardName]*hoard.Hoard
}

// DeclaredEnvironments returns the set of declared environment names.
func (c *Config) DeclaredEnvironments() map[newtypes.EnvironmentName]bool {
	declared := make(map[newtypes.EnvironmentName]bool, len(c.Environments))
	for _, env := range c.Environments {
		declared[env.Name] = true
	}
	return declared
}

// SortedHoardNames returns hoard names in lexical order.
func (c *Config) SortedHoardNames() []newtypes.HoardName {
	names := make([]newtypes.HoardName, 0, len(c.Hoards))
	for name := range c.Hoards {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Hoard looks up a hoard by raw name.
func (c *Config) Hoard(name string) (*hoard.Hoard, error) {
	hoardName, err := newtypes.NewHoardName(name)
	if err != nil {
		return nil, err
	}
	h, ok := c.Hoards[hoardName]
	if !ok {
		return nil, errors.Newf(errors.ErrHoardUnknown, "no hoard named %q is configured", name)
	}
	return h, nil
}

// Load reads and parses the config file at its standard location.
func Load(fs filesystem.FS, p *paths.Paths) (*Config, error) {
	logger := logging.GetLogger("config")
	file := p.ConfigFile()
	data, err := fs.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to read config file %q", file)
	}
	logger.Debug().Str("file", file).Msg("Loaded configuration file")
	return Parse(data)
}

// tomlConfig is the raw TOML surface before validation.
type tomlConfig struct {
	Exclusivity    [][]string                `toml:"exclusivity"`
	Envs           map[string]tomlEnv        `toml:"envs"`
	EnvVarDefaults map[string]string         `toml:"env_var_defaults"`
	Hoards         map[string]map[string]any `toml:"hoards"`
}

// tomlEnv declares one environment. Within the os and hostname lists
// one match suffices, since a machine has exactly one of each; every
// other entry must hold.
type tomlEnv struct {
	OS         []string     `toml:"os"`
	Hostname   []string     `toml:"hostname"`
	Env        []tomlEnvVar `toml:"env"`
	ExeExists  []string     `toml:"exe_exists"`
	PathExists []string     `toml:"path_exists"`
}

type tomlEnvVar struct {
	Var      string  `toml:"var"`
	Expected *string `toml:"expected"`
}

// Parse decodes, validates, and expands a raw config document. Env var
// defaults are applied to the process environment before pile paths
// are expanded, so defaults can supply variables the paths use.
func Parse(data []byte) (*Config, error) {
	var raw tomlConfig
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse config file")
	}

	if err := ApplyDefaults(raw.EnvVarDefaults); err != nil {
		return nil, err
	}

	envs, declared, err := buildEnvironments(raw.Envs)
	if err != nil {
		return nil, err
	}

	exclusivity, err := buildExclusivity(raw.Exclusivity, declared)
	if err != nil {
		return nil, err
	}

	hoards, err := buildHoards(raw.Hoards)
	if err != nil {
		return nil, err
	}

	return &Config{
		Exclusivity:  exclusivity,
		Environments: envs,
		Hoards:       hoards,
	}, nil
}

func buildEnvironments(raw map[string]tomlEnv) ([]environment.Environment, map[newtypes.EnvironmentName]bool, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	envs := make([]environment.Environment, 0, len(raw))
	declared := make(map[newtypes.EnvironmentName]bool, len(raw))
	for _, name := range names {
		envName, err := newtypes.NewEnvironmentName(name)
		if err != nil {
			return nil, nil, err
		}
		envs = append(envs, environment.Environment{
			Name:       envName,
			Predicates: buildPredicates(raw[name]),
		})
		declared[envName] = true
	}
	return envs, declared, nil
}

func buildPredicates(env tomlEnv) []environment.Predicate {
	var predicates []environment.Predicate

	if len(env.OS) > 0 {
		alternatives := make([]environment.Predicate, 0, len(env.OS))
		for _, target := range env.OS {
			alternatives = append(alternatives, environment.OS{Target: target})
		}
		predicates = append(predicates, environment.AnyOf{Alternatives: alternatives})
	}
	if len(env.Hostname) > 0 {
		alternatives := make([]environment.Predicate, 0, len(env.Hostname))
		for _, target := range env.Hostname {
			alternatives = append(alternatives, environment.Hostname{Target: target})
		}
		predicates = append(predicates, environment.AnyOf{Alternatives: alternatives})
	}
	for _, envVar := range env.Env {
		predicates = append(predicates, environment.EnvVar{Name: envVar.Var, Value: envVar.Expected})
	}
	for _, name := range env.ExeExists {
		predicates = append(predicates, environment.ExeExists{Name: name})
	}
	for _, path := range env.PathExists {
		predicates = append(predicates, environment.PathExists{Path: path})
	}

	return predicates
}

func buildExclusivity(raw [][]string, declared map[newtypes.EnvironmentName]bool) ([][]newtypes.EnvironmentName, error) {
	exclusivity := make([][]newtypes.EnvironmentName, 0, len(raw))
	for _, list := range raw {
		converted := make([]newtypes.EnvironmentName, 0, len(list))
		for _, name := range list {
			envName, err := newtypes.NewEnvironmentName(name)
			if err != nil {
				return nil, err
			}
			if !declared[envName] {
				return nil, errors.Newf(errors.ErrUnknownEnvironment,
					"exclusivity references undeclared environment %q", name)
			}
			converted = append(converted, envName)
		}
		exclusivity = append(exclusivity, converted)
	}
	return exclusivity, nil
}
