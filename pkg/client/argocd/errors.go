package argocd

import "errors"

// ErrLoginFailed is returned when every login attempt failed.
var ErrLoginFailed = errors.New("argocd login failed")
