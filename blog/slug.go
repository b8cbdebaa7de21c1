package blog

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// Letters and digits are Unicode-aware, so titles in any script keep
	// their characters.
	slugStrip    = regexp.MustCompile(`[^\p{L}\p{N}\s_-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)
	slugTrim     = regexp.MustCompile(`^-+|-+$`)
)

// Slugify turns a title into a URL-friendly identifier: lowercase, only
// letters, digits and hyphens, runs of whitespace/underscores/hyphens
// collapsed to a single hyphen.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	slug = slugTrim.ReplaceAllString(slug, "")
	return slug
}

// UniqueSlug disambiguates candidate against existing slugs by appending the
// current epoch seconds. A second collision after that is not re-checked.
func UniqueSlug(candidate string, exists func(string) bool) string {
	if !exists(candidate) {
		return candidate
	}
	return fmt.Sprintf("%s-%d", candidate, time.Now().Unix())
}
