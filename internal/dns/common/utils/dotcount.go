package utils

import "strings"

// DotCount returns the number of label separators in a name, ignoring a
// single trailing root dot. Used by the search-suffix state machine to
// decide whether a name is tried as-is first or as-is last.
func DotCount(name string) int {
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		return 0
	}
	return strings.Count(name, ".")
}
