// Package io groups configuration input for argoboot.
//
// Subpackages:
//   - configmanager: viper-backed loading of defaults, argoboot.yaml, env and flags
package io
