package executor

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// GraphQLError represents an error that occurred during execution
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       Path           `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e GraphQLError) Error() string {
	return e.Message
}

// FieldOrder maps an object's response path (as rendered by pathToString)
// to its response names in selection order. The root object uses "".
type FieldOrder map[string][]string

// ExecutionResult represents the result of executing a GraphQL query
type ExecutionResult struct {
	Data   any            `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
	Order  FieldOrder     `json:"-"`
}

// MarshalJSON writes data objects with their keys in selection order.
func (r *ExecutionResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"data":`)
	if err := r.writeValue(&buf, r.Data, ""); err != nil {
		return nil, err
	}
	if len(r.Errors) > 0 {
		errs, err := json.Marshal(r.Errors)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"errors":`)
		buf.Write(errs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *ExecutionResult) writeValue(buf *bytes.Buffer, v any, key string) error {
	switch val := v.(type) {
	case map[string]any:
		buf.WriteByte('{')
		for i, name := range r.objectKeys(val, key) {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, _ := json.Marshal(name)
			buf.Write(k)
			buf.WriteByte(':')
			if err := r.writeValue(buf, val[name], childKey(key, name)); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := r.writeValue(buf, item, childKey(key, "["+strconv.Itoa(i)+"]")); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

func (r *ExecutionResult) objectKeys(m map[string]any, key string) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, name := range r.Order[key] {
		if _, ok := m[name]; ok && !seen[name] {
			keys = append(keys, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range m {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func childKey(parent, elem string) string {
	if parent == "" {
		return elem
	}
	return parent + "." + elem
}
