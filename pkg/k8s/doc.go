// Package k8s wraps the Kubernetes API operations argoboot performs against the
// cluster it creates: building clients for a kubeconfig context, creating namespaces,
// server-side applying manifests, patching and restarting workloads, and reading secrets.
//
// For readiness polling, see the [readiness] sub-package.
package k8s
