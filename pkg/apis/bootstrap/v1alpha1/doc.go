// Package v1alpha1 defines the argoboot configuration: which cluster to create,
// how Argo CD is installed and reached, and which application is declared.
package v1alpha1
