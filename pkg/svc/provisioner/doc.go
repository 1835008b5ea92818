// Package provisioner groups the services that create and destroy local clusters.
package provisioner
