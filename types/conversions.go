package types

import (
	"math"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// ToNumber returns the numeric value of value. Numbers and strings holding a
// finite decimal number are numeric; booleans are not.
func ToNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case nil, bool:
		return 0, false
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		f, err := cast.ToFloat64E(s)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(value)
		if err != nil {
			// named numeric types are not handled by cast
			f = reflect.ValueOf(value).Convert(reflect.TypeOf(float64(0))).Float()
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// IsNumber reports whether value is a Go number (not a numeric string).
func IsNumber(value interface{}) bool {
	if value == nil {
		return false
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// IsInteger reports whether value is a Go number without a fractional part.
func IsInteger(value interface{}) bool {
	if !IsNumber(value) {
		return false
	}
	f, ok := ToNumber(value)
	return ok && IsIntegral(f)
}

// IsIntegral reports whether f has no fractional part.
func IsIntegral(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f)
}

// IsString reports whether value is a string.
func IsString(value interface{}) bool {
	if value == nil {
		return false
	}
	return reflect.ValueOf(value).Kind() == reflect.String
}

// IsSequence reports whether value is a slice or an array.
func IsSequence(value interface{}) bool {
	if value == nil {
		return false
	}
	kind := reflect.ValueOf(value).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// IsMapping reports whether value is a map or a struct (or a pointer to one).
func IsMapping(value interface{}) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Map || rv.Kind() == reflect.Struct
}

// Length returns the number of characters of a string or the number of
// elements of a sequence.
func Length(value interface{}) (int, bool) {
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), true
	case reflect.Slice, reflect.Array:
		return rv.Len(), true
	}
	return 0, false
}

// IsFalsy reports whether value counts as absent: nil, nil pointers, false,
// zero numbers and the empty string. Empty collections are not falsy.
func IsFalsy(value interface{}) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.String:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return true
		}
		if rv.Kind() == reflect.Ptr {
			return IsFalsy(rv.Elem().Interface())
		}
		return false
	}
	if IsNumber(value) {
		f, ok := ToNumber(value)
		return !ok || f == 0
	}
	return false
}

// ToQueryValues renders a parameter value as one or more query string values.
// Sequences produce one value per element.
func ToQueryValues(value interface{}) []string {
	if value == nil {
		return nil
	}
	if IsSequence(value) && !IsString(value) {
		if values, err := cast.ToStringSliceE(value); err == nil {
			return values
		}
		rv := reflect.ValueOf(value)
		values := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			values = append(values, cast.ToString(rv.Index(i).Interface()))
		}
		return values
	}
	return []string{cast.ToString(value)}
}
