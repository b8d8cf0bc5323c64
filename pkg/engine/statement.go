package engine

import "strings"

var schemaChangePrefixes = []string{"CREATE", "DROP", "ALTER", "TRUNCATE"}

// IsSchemaChange reports whether sql begins with a schema-changing keyword.
func IsSchemaChange(sql string) bool {
	upper := strings.ToUpper(strings.TrimSpace(sql))
	for _, prefix := range schemaChangePrefixes {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}
