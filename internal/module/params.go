package module

import (
	"fmt"
	"strconv"

	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

// Params is a task's parameter mapping. Values are the scalars the playbook
// loader admits, plus one level of scalar-valued nesting for template vars.
type Params map[string]any

// Require returns a MissingParamError for the first required key absent
// from the mapping.
func (p Params) Require(moduleName string, keys ...string) error {
	for _, key := range keys {
		if _, ok := p[key]; !ok {
			return opserrors.NewMissingParamError(moduleName, key)
		}
	}
	return nil
}

// String returns the value under key rendered as a string. Numbers and
// booleans are formatted; absent keys yield the empty string.
func (p Params) String(key string) string {
	value, ok := p[key]
	if !ok || value == nil {
		return ""
	}

	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", typed)
	}
}

// StringDefault returns the value under key, or def when absent or empty.
func (p Params) StringDefault(key, def string) string {
	if value := p.String(key); value != "" {
		return value
	}
	return def
}

// Bool returns the boolean under key, or def when absent or non-boolean.
func (p Params) Bool(key string, def bool) bool {
	value, ok := p[key]
	if !ok {
		return def
	}
	typed, ok := value.(bool)
	if !ok {
		return def
	}
	return typed
}

// Map returns the nested mapping under key, or nil when absent.
func (p Params) Map(key string) map[string]any {
	value, ok := p[key]
	if !ok {
		return nil
	}
	typed, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return typed
}
