// Package envvar expands ${VAR} placeholders and a leading ~ in user-supplied paths and URLs.
package envvar

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var pattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Expand replaces ${VAR} placeholders with their values (unset expands to "") and
// a leading "~/" with the current user's home directory.
func Expand(value string) string {
	if value == "" {
		return value
	}

	value = pattern.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return expandHome(value)
}

func expandHome(value string) string {
	if value != "~" && !strings.HasPrefix(value, "~/") {
		return value
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return value
	}

	return filepath.Join(home, strings.TrimPrefix(value, "~"))
}
