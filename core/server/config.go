package server

import "strings"

// Config holds configuration for the pack file server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8000"`
	// Dir is the directory whose files are served.
	Dir string `mapstructure:"dir" default:"dist"`
	// Prefix is the URL path the files are mounted under.
	Prefix string `mapstructure:"prefix" default:"/files"`
	// ApiKey protects the upload routes. Empty disables the check.
	ApiKey string `mapstructure:"api_key" default:""`
}

// RoutePrefix returns Prefix normalized to a leading slash and no trailing slash.
func (c Config) RoutePrefix() string {
	p := strings.Trim(c.Prefix, "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// APIKeyHeader carries the API key on protected requests.
const APIKeyHeader = "X-API-Key"
