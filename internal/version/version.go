// Package version holds the build version string, overridable at link time:
//
//	go build -ldflags "-X .../internal/version.Version=v1.2.3"
package version

// Version is the application version reported by the system endpoints.
var Version = "dev"
