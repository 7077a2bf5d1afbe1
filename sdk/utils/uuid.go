package utils

import (
	"strings"

	"github.com/google/uuid"
)

// UUIDv4NoDash names staging directories uniquely per asset.
func UUIDv4NoDash() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
