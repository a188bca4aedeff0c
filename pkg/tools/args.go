package tools

import (
	"time"

	"github.com/openfleet/opsagent/pkg/store"
)

// Argument accessors. Arguments arrive as JSON-decoded values, so numbers
// may be float64; store rows may carry driver-native types (int64 counts,
// []byte text, integer booleans from SQLite).

func argString(args map[string]interface{}, key string) (string, bool) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func argInt(args map[string]interface{}, key string) (int, bool) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func argIntOr(args map[string]interface{}, key string, def int) int {
	if n, ok := argInt(args, key); ok {
		return n
	}
	return def
}

func argBool(args map[string]interface{}, key string) (bool, bool) {
	v, ok := args[key]
	if !ok || v == nil {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Row accessors.

func rowString(row store.Row, col string) string {
	switch v := row[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func rowBool(row store.Row, col string) bool {
	switch v := row[col].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}

func rowInt(row store.Row, col string) int {
	switch v := row[col].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// rowTimeString renders a timestamp column as RFC 3339, or passes through
// date strings untouched.
func rowTimeString(row store.Row, col string) string {
	switch v := row[col].(type) {
	case time.Time:
		return v.Format(time.RFC3339)
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}
