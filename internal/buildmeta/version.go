// Package buildmeta carries the version stamp injected at link time:
//
//	go build -ldflags="-X github.com/devantler-tech/argoboot/internal/buildmeta.Version=v0.1.0"
//
//nolint:gochecknoglobals
package buildmeta

import "fmt"

var (
	// Version of the binary, e.g. "v0.1.0".
	Version = "dev"
	// Commit is the Git SHA the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// Describe renders a version line for `argoboot --version`.
func Describe(version, commit, date string) string {
	return fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)
}
