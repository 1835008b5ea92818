// Package bootstrap sequences the setup and reset flows: provision the cluster, install
// Argo CD, read the admin password, open the tunnel, log in and declare the application.
//
// Steps run in order and the first error aborts the run, except tunnel and login
// failures, which end the run successfully with instructions to finish by hand.
package bootstrap
