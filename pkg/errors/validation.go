package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds graph, node and port identifiers.
const maxIDLength = 256

// ValidateGraphID validates a graph id before it is used as a storage key
// (file name, Redis key, Mongo _id).
//
// The rules are conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateGraphID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "graph id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "graph id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "graph id contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidID, "graph id contains invalid characters: %q", pattern)
		}
	}
	if strings.HasPrefix(id, ".") {
		return New(ErrCodeInvalidID, "graph id cannot start with a dot")
	}
	return nil
}

// ValidateNodeID validates a node id. Node ids live inside documents only, so
// the only constraints are non-emptiness, length and printable characters.
func ValidateNodeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidID, "node id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "node id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "node id contains invalid control characters")
		}
	}
	return nil
}
