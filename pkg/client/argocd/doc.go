// Package argocd drives the argocd CLI against a server reached through the local tunnel.
//
// The client logs in, registers the source repository, declares the application with
// --upsert and triggers a sync. The admin password never appears in logs or errors.
package argocd
