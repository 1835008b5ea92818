// Package readiness waits for Kubernetes resources to become ready.
//
//   - PollForReadiness: bounded polling primitive shared by every wait
//   - WaitForAPIServerReady: API server answers version requests
//   - WaitForNodesReady: the expected number of nodes report Ready
//   - WaitForDeploymentsReady: deployments roll out, checked concurrently
//   - WaitForPodsReady: every pod in a namespace reports Ready
package readiness
