// Package environment evaluates named environments against a host.
//
// An environment is a conjunction of predicates over the host: its
// operating system, hostname, executables on PATH, environment
// variables, and path existence. Environments are evaluated once per
// invocation and the resulting active set drives pile resolution.
package environment

import (
	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/host"
)

// Predicate is a single condition over the host.
type Predicate interface {
	// Evaluate reports whether the predicate holds on the host.
	Evaluate(h host.Host) (bool, error)
}

// OS matches when the host operating system equals Target.
type OS struct {
	Target string
}

func (p OS) Evaluate(h host.Host) (bool, error) {
	return h.OS() == p.Target, nil
}

// Hostname matches when the host's reported hostname equals Target.
type Hostname struct {
	Target string
}

func (p Hostname) Evaluate(h host.Host) (bool, error) {
	name, err := h.Hostname()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrEnv, "failed to detect hostname")
	}
	return name == p.Target, nil
}

// ExeExists matches when a binary with the given name resolves via PATH.
type ExeExists struct {
	Name string
}

func (p ExeExists) Evaluate(h host.Host) (bool, error) {
	found, err := h.Which(p.Name)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrEnv, "failed to detect if %q exists in PATH", p.Name)
	}
	return found, nil
}

// EnvVar matches when the variable is set and, if Value is non-nil,
// equals it.
type EnvVar struct {
	Name  string
	Value *string
}

func (p EnvVar) Evaluate(h host.Host) (bool, error) {
	value, ok := h.Getenv(p.Name)
	if !ok {
		return false, nil
	}
	if p.Value != nil {
		return value == *p.Value, nil
	}
	return true, nil
}

// AnyOf matches when at least one alternative matches. It exists for
// fields like os and hostname where a host can only ever satisfy one
// alternative at a time.
type AnyOf struct {
	Alternatives []Predicate
}

func (p AnyOf) Evaluate(h host.Host) (bool, error) {
	for _, alt := range p.Alternatives {
		ok, err := alt.Evaluate(h)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// PathExists matches when the path exists on the host.
type PathExists struct {
	Path string
}

func (p PathExists) Evaluate(h host.Host) (bool, error) {
	return h.PathExists(p.Path), nil
}
