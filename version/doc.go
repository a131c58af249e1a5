// Package version reports build information for querykit binaries.
//
// Version, commit, branch and build time can be set at compile time:
//
//	go build -ldflags "-X github.com/kbukum/querykit/version.Version=1.0.0"
//
// Anything left unset falls back to the VCS stamps embedded by the Go
// toolchain.
package version
