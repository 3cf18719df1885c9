package environment

import (
	"github.com/Shadow53/hoard-sub001/pkg/host"
	"github.com/Shadow53/hoard-sub001/pkg/logging"
	"github.com/Shadow53/hoard-sub001/pkg/newtypes"
)

// Environment is a named conjunction of predicates. It is active iff
// every predicate evaluates true. An environment with no predicates is
// always active.
type Environment struct {
	Name       newtypes.EnvironmentName
	Predicates []Predicate
}

// Active evaluates the environment's predicates against the host,
// short-circuiting on the first false predicate.
func (e Environment) Active(h host.Host) (bool, error) {
	for _, predicate := range e.Predicates {
		ok, err := predicate.Evaluate(h)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// ActiveSet evaluates every environment and returns the set of active
// environment names.
func ActiveSet(h host.Host, envs []Environment) (map[newtypes.EnvironmentName]bool, error) {
	logger := logging.GetLogger("environment")
	active := make(map[newtypes.EnvironmentName]bool, len(envs))
	for _, env := range envs {
		ok, err := env.Active(h)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("environment", env.Name.String()).Bool("active", ok).Msg("Evaluated environment")
		if ok {
			active[env.Name] = true
		}
	}
	return active, nil
}
