package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID checks a node id taken from an HTTP path or a CLI flag:
// non-blank, at most 256 bytes, no control characters. Ids that pass may
// still be unknown to the loaded topology.
func ValidateNodeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}

	return nil
}

// ValidateLocation checks a document location given on the command line.
// Anything containing "://" must be an http(s) URL; everything else is
// treated as a file path and only checked for length and control characters.
func ValidateLocation(location string) error {
	if location == "" {
		return New(ErrCodeInvalidPath, "location cannot be empty")
	}

	const maxLocationLength = 2048
	if len(location) > maxLocationLength {
		return New(ErrCodeInvalidPath, "location too long (max %d characters)", maxLocationLength)
	}

	for _, r := range location {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "location contains invalid characters")
		}
	}

	if strings.Contains(location, "://") {
		return ValidateURL(location)
	}

	return nil
}

// ValidateURL accepts only http and https URLs.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
