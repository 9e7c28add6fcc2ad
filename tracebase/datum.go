package tracebase

import "github.com/tatchi/trace-go/traceat"

// DatumType tags the variants of Datum.
type DatumType int

const (
	DatumNone DatumType = iota
	DatumInt
	DatumBool
	DatumString
	DatumFloat
)

// Datum is an attribute value: one of absent, integer, boolean,
// string, or float.  The set is closed, which keeps events copyable
// by value and the whole map serializable.
type Datum struct {
	Type  DatumType
	Int   int64
	Bool  bool
	Str   string
	Float float64
}

func None() Datum           { return Datum{} }
func Int(v int64) Datum     { return Datum{Type: DatumInt, Int: v} }
func Bool(v bool) Datum     { return Datum{Type: DatumBool, Bool: v} }
func Str(v string) Datum    { return Datum{Type: DatumString, Str: v} }
func Float(v float64) Datum { return Datum{Type: DatumFloat, Float: v} }

// Attr is one key/value attribute on a span, message, or manual span.
type Attr struct {
	Key   traceat.K
	Value Datum
}

// A is shorthand for building an Attr.
func A(key string, value Datum) Attr {
	return Attr{Key: traceat.K(key), Value: value}
}
