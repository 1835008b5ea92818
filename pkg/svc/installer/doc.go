// Package installer defines the Installer contract for in-cluster components and the
// readiness helpers they share.
package installer
