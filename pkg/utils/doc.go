// Package utils holds small cross-cutting helpers.
//
//   - envvar: ${VAR} and ~ expansion for configured paths
//   - logging: logrus setup
//   - notify: coloured user-facing status lines
package utils
