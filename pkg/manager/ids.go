package manager

import (
	"strings"

	"github.com/google/uuid"
)

// newHexSuffix mirrors engine.newExecutionID's derivation of a fresh random
// hex id from a UUIDv4, used here for the "workflow_<12 hex>" fallback id
// per SPEC_FULL.md §4.5.
func newHexSuffix(n int) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(raw) {
		n = len(raw)
	}
	return raw[:n]
}
