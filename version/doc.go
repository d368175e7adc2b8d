// Package version reports build information for the bytepipe binary.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/bytepipe/version.Version=1.2.0 \
//	    -X github.com/kbukum/bytepipe/version.Commit=$(git rev-parse --short HEAD)"
//
// Unset values fall back to the VCS stamp embedded by the Go toolchain.
package version
