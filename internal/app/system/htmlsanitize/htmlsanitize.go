// Package htmlsanitize strips markup from client-supplied lesson content.
// Lesson titles and descriptions are plain text; anything that looks like
// HTML in them is an injection attempt or a paste accident, so the strict
// policy removes it entirely rather than trying to preserve formatting.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text removes all HTML elements and attributes from s and trims
// surrounding whitespace. Safe to call on empty strings.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(getPolicy().Sanitize(s))
}
