package domain

import (
	"regexp"
	"strings"
)

// DefaultTagColor is used when a tag is created without a color.
const DefaultTagColor = "#ef4444"

var tagColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidateTag checks a tag name and hex color before it is sent.
func ValidateTag(name, color string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", "tag name cannot be empty")
	}
	if !tagColorPattern.MatchString(color) {
		return NewValidationError("color", "must be a hex color like #3b82f6")
	}
	return nil
}

// FindTag looks a tag up by ID or case-insensitive name.
func FindTag(tags []Tag, ref string) (Tag, bool) {
	ref = strings.TrimSpace(ref)
	for _, tag := range tags {
		if tag.ID == ref || strings.EqualFold(tag.Name, ref) {
			return tag, true
		}
	}
	return Tag{}, false
}

// WithTags returns t carrying tags instead of its current ones.
func WithTags(t Task, tags []Tag) Task {
	switch task := t.(type) {
	case Habit:
		task.Tags = tags
		return task
	case Todo:
		task.Tags = tags
		return task
	}
	return t
}
