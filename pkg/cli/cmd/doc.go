// Package cmd provides the argoboot command-line interface.
//
// The root command takes at most one positional action (setup, menu, reset or help)
// or its flag form, loads the configuration and hands off to the bootstrap
// orchestrator resolved from the di runtime.
package cmd
