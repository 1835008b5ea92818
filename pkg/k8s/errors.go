package k8s

import "errors"

var (
	// ErrKubeconfigPathEmpty is returned when kubeconfig path is empty.
	ErrKubeconfigPathEmpty = errors.New("kubeconfig path is empty")
	// ErrSecretKeyMissing is returned when a secret exists but lacks the requested key.
	ErrSecretKeyMissing = errors.New("secret key missing")
	// ErrInvalidManifest is returned when a manifest document cannot be decoded.
	ErrInvalidManifest = errors.New("invalid manifest")
)
