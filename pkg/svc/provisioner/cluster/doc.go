// Package clusterprovisioner creates, lists and deletes the local multi-node cluster.
//
// Two distributions run in Docker with their CLIs linked in-process:
//
//   - k3d: k3s with a built-in load balancer (default)
//   - kind: upstream Kubernetes, ports published through extraPortMappings
//
// Both publish host ports 8080 and 8443 to cluster ports 80 and 443.
package clusterprovisioner
