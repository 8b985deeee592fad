package schema

import (
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxTableNameLength is the maximum length of a DynamoDB table name.
	MaxTableNameLength = 255
	// DefaultTableName is the base name used when a table has no name.
	DefaultTableName = "Table"
)

// TableName generates a random table name from base, or from DefaultTableName when
// base is empty. The name is always suffixed with 32 random alphanumeric characters so
// repeated calls never collide, then truncated to MaxTableNameLength.
func TableName(base string) string {
	if base == "" {
		base = DefaultTableName
	}
	name := base + "-" + randomAlphaNum()
	if len(name) > MaxTableNameLength {
		name = name[:MaxTableNameLength]
	}
	return name
}

// randomAlphaNum returns 32 random lowercase hex characters.
func randomAlphaNum() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
