// Package server holds the pack file server configuration.
//
// The `serve` command exposes the output directory (produced mod packs, shader
// packs, the mod loader installer) as named GET resources under Prefix, which is
// the layout the remote source expects at remote.base_url.
package server
