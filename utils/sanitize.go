package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips HTML from free-text input before storage. Event metadata
// arrives from browser-driven callers and ends up rendered in admin tooling.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// SanitizeMetadata cleans every string value of an event metadata map in place.
func SanitizeMetadata(meta map[string]any) map[string]any {
	for k, v := range meta {
		if s, ok := v.(string); ok {
			meta[k] = Sanitize(s)
		}
	}
	return meta
}
