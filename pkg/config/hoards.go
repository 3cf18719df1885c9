package config

import (
	"sort"

	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/hoard"
	"github.com/Shadow53/hoard-sub001/pkg/newtypes"
)

// configKey marks the table holding pile or hoard options rather than
// an environment expression or a pile. The name validator reserves it,
// so it can never collide with a real pile.
const configKey = "config"

// buildHoards interprets each hoard table as either one anonymous pile
// (expression -> path strings) or a set of named piles (nested
// tables). Mixing the two forms in one hoard is rejected.
func buildHoards(raw map[string]map[string]any) (map[newtypes.HoardName]*hoard.Hoard, error) {
	hoards := make(map[newtypes.HoardName]*hoard.Hoard, len(raw))
	for name, entry := range raw {
		hoardName, err := newtypes.NewHoardName(name)
		if err != nil {
			return nil, err
		}
		built, err := buildHoard(hoardName, entry)
		if err != nil {
			return nil, err
		}
		hoards[hoardName] = built
	}
	return hoards, nil
}

func buildHoard(name newtypes.HoardName, entry map[string]any) (*hoard.Hoard, error) {
	var hoardConfig *hoard.PileConfig
	pathValues := make(map[string]string)
	pileValues := make(map[string]map[string]any)

	keys := make([]string, 0, len(entry))
	for key := range entry {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key == configKey {
			parsed, err := parsePileConfig(name, entry[key])
			if err != nil {
				return nil, err
			}
			hoardConfig = parsed
			continue
		}
		switch value := entry[key].(type) {
		case string:
			pathValues[key] = value
		case map[string]any:
			pileValues[key] = value
		default:
			return nil, errors.Newf(errors.ErrConfigParse,
				"hoard %q: entry %q must be a path string or a pile table", name, key)
		}
	}

	if len(pathValues) > 0 && len(pileValues) > 0 {
		return nil, errors.Newf(errors.ErrConfigParse,
			"hoard %q mixes direct paths with named piles", name)
	}

	if len(pileValues) == 0 {
		pile, err := buildPile(name, "", pathValues, hoardConfig)
		if err != nil {
			return nil, err
		}
		return &hoard.Hoard{Name: name, Single: pile}, nil
	}

	multiple := make(map[newtypes.NonEmptyPileName]*hoard.Pile, len(pileValues))
	for pileName, pileEntry := range pileValues {
		validName, err := newtypes.NewNonEmptyPileName(pileName)
		if err != nil {
			return nil, err
		}
		pile, err := buildNamedPile(name, pileName, pileEntry, hoardConfig)
		if err != nil {
			return nil, err
		}
		multiple[validName] = pile
	}
	return &hoard.Hoard{Name: name, Multiple: multiple}, nil
}

// buildNamedPile parses one named pile table. A pile-level config table
// overrides the hoard-level one; otherwise the hoard's applies.
func buildNamedPile(hoardName newtypes.HoardName, pileName string, entry map[string]any, fallback *hoard.PileConfig) (*hoard.Pile, error) {
	var pileConfig *hoard.PileConfig
	pathValues := make(map[string]string)

	for key, value := range entry {
		if key == configKey {
			parsed, err := parsePileConfig(hoardName, value)
			if err != nil {
				return nil, err
			}
			pileConfig = parsed
			continue
		}
		path, ok := value.(string)
		if !ok {
			return nil, errors.Newf(errors.ErrConfigParse,
				"hoard %q, pile %q: entry %q must be a path string", hoardName, pileName, key)
		}
		pathValues[key] = path
	}

	if pileConfig == nil {
		pileConfig = fallback
	}
	return buildPile(hoardName, pileName, pathValues, pileConfig)
}

// buildPile expands ${VAR} references in each path and assembles the
// pile model.
func buildPile(hoardName newtypes.HoardName, pileName string, pathValues map[string]string, pileConfig *hoard.PileConfig) (*hoard.Pile, error) {
	expanded := make(map[string]string, len(pathValues))
	for expression, path := range pathValues {
		result, err := ExpandEnv(path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid,
				"hoard %q, pile %q: cannot expand path for %q", hoardName, pileName, expression)
		}
		expanded[expression] = result
	}

	pile := &hoard.Pile{Paths: expanded}
	if pileConfig != nil {
		pile.Config = *pileConfig
	}
	return pile, nil
}

func parsePileConfig(hoardName newtypes.HoardName, raw any) (*hoard.PileConfig, error) {
	table, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.Newf(errors.ErrConfigParse, "hoard %q: config must be a table", hoardName)
	}

	var pileConfig hoard.PileConfig
	for key, value := range table {
		if key != "ignore" {
			return nil, errors.Newf(errors.ErrConfigParse,
				"hoard %q: unknown config key %q", hoardName, key)
		}
		patterns, ok := value.([]any)
		if !ok {
			return nil, errors.Newf(errors.ErrConfigParse,
				"hoard %q: ignore must be a list of glob strings", hoardName)
		}
		for _, pattern := range patterns {
			glob, ok := pattern.(string)
			if !ok {
				return nil, errors.Newf(errors.ErrConfigParse,
					"hoard %q: ignore must be a list of glob strings", hoardName)
			}
			pileConfig.Ignore = append(pileConfig.Ignore, glob)
		}
	}
	return &pileConfig, nil
}
