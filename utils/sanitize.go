package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips HTML from user-authored text (names, bios) to prevent XSS.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
