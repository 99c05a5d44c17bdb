// Package store provides small file persistence helpers.
//
// Files are written through a temporary file in the same directory and then
// renamed over the target, so readers never see a partial file. Reading a
// missing file is not an error. TOML helpers sit on top for configuration.
package store
