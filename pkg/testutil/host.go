// Package testutil provides shared helpers for hoard tests: a fake
// host for deterministic environment evaluation and isolated
// config/data directories.
package testutil

import "fmt"

// FakeHost is a canned-answer implementation of host.Host.
type FakeHost struct {
	OSName   string
	Host     string
	HostErr  error
	Exes     map[string]bool
	WhichErr error
	Env      map[string]string
	Paths    map[string]bool
}

// NewFakeHost returns a FakeHost resembling a bare linux machine.
func NewFakeHost() *FakeHost {
	return &FakeHost{
		OSName: "linux",
		Host:   "testhost",
		Exes:   make(map[string]bool),
		Env:    make(map[string]string),
		Paths:  make(map[string]bool),
	}
}

func (h *FakeHost) OS() string {
	return h.OSName
}

func (h *FakeHost) Hostname() (string, error) {
	if h.HostErr != nil {
		return "", h.HostErr
	}
	return h.Host, nil
}

func (h *FakeHost) Which(name string) (bool, error) {
	if h.WhichErr != nil {
		return false, h.WhichErr
	}
	return h.Exes[name], nil
}

func (h *FakeHost) Getenv(name string) (string, bool) {
	value, ok := h.Env[name]
	return value, ok
}

func (h *FakeHost) PathExists(path string) bool {
	return h.Paths[path]
}

// Describe returns a short description, useful in failure messages.
func (h *FakeHost) Describe() string {
	return fmt.Sprintf("fake host os=%s hostname=%s", h.OSName, h.Host)
}
