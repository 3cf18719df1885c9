// Package filesystem abstracts file access behind a small interface so
// commands can run against a temp-dir or fake filesystem in tests.
package filesystem

import "io/fs"

// FS is the filesystem surface hoard needs.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	// WriteFileExclusive creates the file, failing if it already
	// exists. Used for the device UUID so two concurrent init runs
	// cannot race distinct values.
	WriteFileExclusive(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
}
