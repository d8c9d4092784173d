package combat

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"
)

// maxExactInt is the largest integer a JSON number carries without loss.
const maxExactInt = 1 << 53

// fields reads typed values out of a request struct.
type fields map[string]*structpb.Value

func fieldsOf(s *structpb.Struct) fields {
	if s == nil {
		return fields{}
	}
	return fields(s.GetFields())
}

func (f fields) has(key string) bool {
	v, ok := f[key]
	if !ok || v == nil {
		return false
	}
	_, isNull := v.GetKind().(*structpb.Value_NullValue)
	return !isNull
}

func (f fields) str(key string) (string, error) {
	if !f.has(key) {
		return "", nil
	}
	s, ok := f[key].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return strings.TrimSpace(s.StringValue), nil
}

func (f fields) required(key string) (string, error) {
	s, err := f.str(key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return s, nil
}

func (f fields) boolean(key string) (bool, error) {
	if !f.has(key) {
		return false, nil
	}
	b, ok := f[key].GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, fmt.Errorf("%s must be a bool", key)
	}
	return b.BoolValue, nil
}

// integer reads a whole number within the exact JSON range.
func (f fields) integer(key string) (int64, error) {
	if !f.has(key) {
		return 0, nil
	}
	n, ok := f[key].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	v := n.NumberValue
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	if math.Abs(v) > maxExactInt {
		return 0, fmt.Errorf("%s is out of range", key)
	}
	return int64(v), nil
}

func (f fields) smallInt(key string) (int, error) {
	v, err := f.integer(key)
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("%s is out of range", key)
	}
	return int(v), nil
}

// int64Value accepts numbers and decimal strings so full 64-bit values
// survive JSON transport.
func (f fields) int64Value(key string) (int64, error) {
	if !f.has(key) {
		return 0, nil
	}
	if s, ok := f[key].GetKind().(*structpb.Value_StringValue); ok {
		v, err := strconv.ParseInt(strings.TrimSpace(s.StringValue), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s is not a valid integer", key)
		}
		return v, nil
	}
	return f.integer(key)
}

func (f fields) stringSlice(key string) ([]string, error) {
	if !f.has(key) {
		return nil, nil
	}
	list, ok := f[key].GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, fmt.Errorf("%s must be a list", key)
	}
	out := make([]string, 0, len(list.ListValue.GetValues()))
	for i, v := range list.ListValue.GetValues() {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a string", key, i)
		}
		out = append(out, strings.TrimSpace(s.StringValue))
	}
	return out, nil
}

func (f fields) object(key string) (fields, error) {
	if !f.has(key) {
		return fields{}, nil
	}
	s, ok := f[key].GetKind().(*structpb.Value_StructValue)
	if !ok {
		return nil, fmt.Errorf("%s must be an object", key)
	}
	return fieldsOf(s.StructValue), nil
}

func (f fields) objects(key string) ([]fields, error) {
	if !f.has(key) {
		return nil, nil
	}
	list, ok := f[key].GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, fmt.Errorf("%s must be a list", key)
	}
	out := make([]fields, 0, len(list.ListValue.GetValues()))
	for i, v := range list.ListValue.GetValues() {
		s, ok := v.GetKind().(*structpb.Value_StructValue)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be an object", key, i)
		}
		out = append(out, fieldsOf(s.StructValue))
	}
	return out, nil
}

// stringList converts for structpb, which only accepts []any.
func stringList(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func intMap(values map[string]int) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
