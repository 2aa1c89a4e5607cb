package engine

import (
	"strings"

	"github.com/google/uuid"
)

// newHexSuffix returns a fresh random lowercase hex string of length n,
// derived from a UUIDv4 (already a teacher dependency) rather than rolling
// a bespoke random-hex generator.
func newHexSuffix(n int) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(raw) {
		n = len(raw)
	}
	return raw[:n]
}

// newExecutionID returns a fresh execution id, per SPEC_FULL.md §4.3's
// "fresh 12-hex-char random suffix".
func newExecutionID() string {
	return newHexSuffix(12)
}
