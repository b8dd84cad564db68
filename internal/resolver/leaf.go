package resolver

import (
	"fmt"
	"time"

	model "github.com/hanpama/schoolgraph/internal/model"
)

type leafFunc func(value any) (any, error)

var leafSerializers = map[string]leafFunc{
	"Int":         serializeInt,
	"String":      serializeString,
	"Boolean":     serializeBoolean,
	"DateTime":    serializeDateTime,
	"TeacherType": serializeTeacherType,
}

func serializeInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	}
	return nil, fmt.Errorf("Int cannot represent %T", value)
}

func serializeString(value any) (any, error) {
	if v, ok := value.(string); ok {
		return v, nil
	}
	return nil, fmt.Errorf("String cannot represent %T", value)
}

func serializeBoolean(value any) (any, error) {
	if v, ok := value.(bool); ok {
		return v, nil
	}
	return nil, fmt.Errorf("Boolean cannot represent %T", value)
}

// serializeDateTime renders timestamps as RFC 3339 in UTC.
func serializeDateTime(value any) (any, error) {
	if v, ok := value.(time.Time); ok {
		return v.UTC().Format(time.RFC3339), nil
	}
	return nil, fmt.Errorf("DateTime cannot represent %T", value)
}

func serializeTeacherType(value any) (any, error) {
	var t model.TeacherType
	switch v := value.(type) {
	case model.TeacherType:
		t = v
	case string:
		t = model.TeacherType(v)
	default:
		return nil, fmt.Errorf("TeacherType cannot represent %T", value)
	}
	if !t.Valid() {
		return nil, fmt.Errorf("TeacherType cannot represent value %q", string(t))
	}
	return string(t), nil
}
