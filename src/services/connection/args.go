package connection

import (
	"reflect"
	"time"
)

type nullValue struct{}

// Null stands for an argument explicitly passed as null, which is distinct
// from an argument that was not passed at all (nil).
var Null any = nullValue{}

const (
	DirectionAsc  = "ASC"
	DirectionDesc = "DESC"
)

type OrderBy struct {
	Field     string
	Direction string
}

// Args are the arguments of one connection field. First and Last keep the
// caller's raw value so non-numeric input can be reported by type.
type Args struct {
	First     any
	Last      any
	After     *string
	Before    *string
	OrderBy   *OrderBy
	Search    string
	Ownership *bool
	StartDate *time.Time
	EndDate   *time.Time
}

// typeName names the runtime type of a pagination argument the way the
// messages present it.
func typeName(value any) string {
	if _, ok := value.(nullValue); ok {
		return "null"
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Invalid:
		return "undefined"
	default:
		return "object"
	}
}

// amount returns the numeric value of a pagination argument.
func amount(value any) (float64, bool) {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}
