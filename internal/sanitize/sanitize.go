package sanitize

import (
	"regexp"
	"strings"
)

var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// Filename removes characters that are not allowed in file names on common
// filesystems, then trims surrounding spaces and dots.
func Filename(name string) string {
	return strings.Trim(illegalChars.ReplaceAllString(name, ""), " .")
}
