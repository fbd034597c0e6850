// Package version exposes the build version string.
package version

// Version is set at build time via -ldflags.
var Version = "dev"
