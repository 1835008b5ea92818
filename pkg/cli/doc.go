// Package cli contains the command-line surface of argoboot.
//
//   - cli/cmd: root command and action dispatch
//   - cli/ui/confirm: y/N gate in front of reset
//   - cli/ui/errorhandler: cobra executor with normalized errors
package cli
