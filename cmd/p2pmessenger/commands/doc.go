// Package commands defines the p2pmessenger CLI.
//
// Commands
//
//   - listen (alice)        Wait for one peer on the configured port and chat
//   - dial (bob) [address]  Connect to a listening peer and chat
//   - config init           Write a config file with the default settings
//   - config show           Print the effective settings as TOML
//
// # Implementation
//
// The root command loads the TOML config, applies flag overrides and builds
// the logger before any chat subcommand runs. A chat reads lines from stdin,
// sends each as one encrypted message and prints key exchange status lines
// and messages as they happen.
package commands
