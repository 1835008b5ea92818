// Package tunnel supervises the kubectl port-forward process that exposes the Argo CD
// server on a local port, and sweeps stray forwarders left by earlier runs.
package tunnel
