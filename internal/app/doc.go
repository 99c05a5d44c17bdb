// Package app wires application dependencies for the CLI.
//
// It loads Config from a TOML file, builds the logger and constructs the
// listener or dialer session with them.
package app
