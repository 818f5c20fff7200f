// Package cql renders matcher expectations as fragments of the credential
// query language, the restricted boolean syntax saved queries are stored in:
//
//	expr        := literal-true | comparison | conjunction
//	conjunction := "(" expr (" && " expr)* ")"
//	comparison  := "(" field " == " value ")" | boolean-literal
//	value       := "null" | string | char | number | qualified-enum-ref
//
// Only a closed set of value kinds can appear in a query; everything else is
// reported as not renderable rather than guessed at.
package cql

import (
	"strconv"
)

// Char tags a rune as a character value. A bare rune is an int32 and renders
// as a number; wrap it in Char to get a single-quoted character literal.
type Char rune

// Enum is implemented by enumerated constants that render as a qualified
// reference, e.g. CredentialScope.GLOBAL.
type Enum interface {
	EnumType() string
	EnumLabel() string
}

// Literal renders v as a CQL value. The second return is false when v's kind
// is outside the renderable set; that is not an error, some expectations
// simply have no textual form.
func Literal(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "null", true
	case string:
		return `"` + Escape(t) + `"`, true
	case Char:
		return "'" + Escape(string(rune(t))) + "'", true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.FormatInt(int64(t), 10), true
	case int8:
		return strconv.FormatInt(int64(t), 10), true
	case int16:
		return strconv.FormatInt(int64(t), 10), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint:
		return strconv.FormatUint(uint64(t), 10), true
	case uint8:
		return strconv.FormatUint(uint64(t), 10), true
	case uint16:
		return strconv.FormatUint(uint64(t), 10), true
	case uint32:
		return strconv.FormatUint(uint64(t), 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	default:
		if e, ok := v.(Enum); ok {
			return e.EnumType() + "." + e.EnumLabel(), true
		}
		return "", false
	}
}
