package util

import "strings"

// CleanFileName strips path separators and traversal patterns from an
// uploaded file name so it is safe to echo into logs and error messages.
// A name with nothing left becomes "upload".
func CleanFileName(name string) string {
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "..", "")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "upload"
	}
	return s
}
