package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaxListLimit caps the number of stops one list request may return.
const MaxListLimit = 1000

var (
	// Carris stop ids are numeric strings; line and route ids add "_".
	validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	// Comment and tag markers never occur in stop names.
	dangerousPattern = regexp.MustCompile(`[<>]|--|\/\*|\*\/|;.*--`)

	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ValidateQuery validates stop search strings. Empty queries are allowed.
func ValidateQuery(query string) error {
	if query == "" {
		return nil
	}

	if len(query) > 200 {
		return errors.New("query too long (max 200 characters)")
	}

	if dangerousPattern.MatchString(query) {
		return errors.New("query contains invalid characters")
	}

	return nil
}

// ValidateLimit accepts 0 (no limit requested) up to MaxListLimit.
func ValidateLimit(limit int) error {
	if limit < 0 {
		return errors.New("limit must be non-negative")
	}
	if limit > MaxListLimit {
		return fmt.Errorf("limit too large (max %d)", MaxListLimit)
	}
	return nil
}

// SanitizeInput removes HTML tags and surrounding whitespace
func SanitizeInput(input string) string {
	sanitized := htmlTagPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(sanitized)
}

// ValidateAndSanitizeQuery validates and sanitizes a search query
func ValidateAndSanitizeQuery(query string) (string, error) {
	if err := ValidateQuery(query); err != nil {
		return "", err
	}

	return SanitizeInput(query), nil
}
