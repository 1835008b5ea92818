// Package fsutil holds the small filesystem helpers used for the files argoboot writes
// and removes: the password file, the connection-info file and the Argo CD CLI config.
package fsutil
