// Package shellquote renders strings safe for inclusion in remote shell
// command lines. Remote commands always go through the login shell of the
// SSH user, so every interpolated parameter must be quoted.
package shellquote

import (
	"strings"
)

// Quote wraps s in single quotes, escaping embedded single quotes.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Join quotes every argument and joins them with spaces.
func Join(args ...string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = Quote(arg)
	}
	return strings.Join(quoted, " ")
}
