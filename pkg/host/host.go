// Package host abstracts the machine properties that environment
// predicates are evaluated against. Injecting a Host makes predicate
// and trie resolution deterministic under test.
package host

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
)

// Host exposes the machine facts needed to evaluate environment
// predicates.
type Host interface {
	// OS returns the host operating system identifier (GOOS).
	OS() string
	// Hostname returns the host's reported hostname.
	Hostname() (string, error)
	// Which reports whether a binary with the given name is
	// resolvable via PATH. A missing binary is (false, nil); only
	// unexpected lookup failures return an error.
	Which(name string) (bool, error)
	// Getenv returns the value of the named environment variable and
	// whether it is set.
	Getenv(name string) (string, bool)
	// PathExists reports whether the path exists on the host.
	PathExists(path string) bool
}

// osHost implements Host using the real operating system.
type osHost struct{}

// NewOS creates a Host backed by the running operating system.
func NewOS() Host {
	return &osHost{}
}

func (h *osHost) OS() string {
	return runtime.GOOS
}

func (h *osHost) Hostname() (string, error) {
	return os.Hostname()
}

func (h *osHost) Which(name string) (bool, error) {
	_, err := exec.LookPath(name)
	if err == nil {
		return true, nil
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return false, nil
	}
	return false, err
}

func (h *osHost) Getenv(name string) (string, bool) {
	return os.LookupEnv(name)
}

func (h *osHost) PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
