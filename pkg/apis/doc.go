// Package apis holds argoboot's versioned configuration types.
//
//   - bootstrap/v1alpha1: the Config read from argoboot.yaml, env and flags
package apis
