// Package client contains thin clients for the systems argoboot talks to.
//
//   - argocd: argocd CLI wrapper (login, repo add, app create, app sync)
//   - docker: container engine API client used by the prerequisite check
//   - netretry: retry policy for transient network errors
package client
