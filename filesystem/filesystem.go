// Package filesystem provides a virtualized abstraction layer for all filesystem operations.
//
// Downloads, configuration, history and logs all go through the afero backend returned by API,
// so tests can swap the whole application onto an in-memory filesystem.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the filesystem backend to the native operating system implementation.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs initializes a volatile in-memory filesystem backend for unit testing.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// Set installs an arbitrary afero backend, e.g. a read-only or failing filesystem in tests.
func Set(fs afero.Fs) {
	backend = afero.Afero{Fs: fs}
}
