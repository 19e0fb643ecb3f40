package resolver

import (
	"regexp"
	"strings"
)

// illegalChars are characters not allowed in filenames on common filesystems,
// including the SMB server side.
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00]`)

var (
	multiSpace = regexp.MustCompile(`\s+`)
	multiDot   = regexp.MustCompile(`\.{2,}`)
)

// SanitizeFilename removes or replaces characters that are unsafe for
// filenames. This prevents path traversal and remote filesystem errors.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\x00", "")
	name = strings.ReplaceAll(name, "/", " ")
	name = strings.ReplaceAll(name, "\\", " ")
	name = illegalChars.ReplaceAllString(name, " ")
	name = multiDot.ReplaceAllString(name, ".")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.Trim(name, " .")
}

// validateRelative rejects any relative path component that could climb
// out of a library root. Resolved paths are share-relative and always
// joined with forward slashes.
func validateRelative(rel string) error {
	for _, part := range strings.Split(rel, "/") {
		if part == ".." || part == "." {
			return ErrPathTraversal
		}
	}
	return nil
}
