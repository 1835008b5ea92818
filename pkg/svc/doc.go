// Package svc provides the service layer behind the argoboot commands.
//
// Subpackages:
//   - bootstrap: setup and reset orchestration
//   - credentials: admin password retrieval and the credential files
//   - installer: Argo CD installation and readiness
//   - portfinder: free local port discovery for the tunnel
//   - prerequisites: required binaries and container engine check
//   - provisioner: k3d and kind cluster lifecycle
//   - tunnel: supervised kubectl port-forward and stray forwarder cleanup
package svc
