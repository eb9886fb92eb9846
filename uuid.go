package jgnash

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID returns a fresh identifier in canonical hyphenated form.
func NewID() string { return uuid.NewString() }

// FixUUID repairs a legacy 32-hex-digit identifier by reinserting hyphens at
// positions 8, 12, 16 and 20. Identifiers already in canonical form are
// returned unchanged.
func FixUUID(id string) (string, error) {
	if len(id) == 32 {
		id = id[0:8] + "-" + id[8:12] + "-" + id[12:16] + "-" + id[16:20] + "-" + id[20:]
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", newValidationError("uuid", fmt.Sprintf("malformed identifier %q", id))
	}
	return parsed.String(), nil
}
