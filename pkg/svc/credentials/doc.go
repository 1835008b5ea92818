// Package credentials waits for the Argo CD admin password and persists it, together with
// the connection details, to local files.
package credentials
