package utils

import "strings"

// Slugify derives a URL slug from a display name: lowercase, runs of
// whitespace collapsed to single hyphens. Matches the slug stored alongside
// category and sub-category names.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "-")
}
