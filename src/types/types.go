// Package types implements the type model of the language: the two
// primitive kinds (int, float), arrays of a primitive kind, and the
// structural equality rule the evaluator relies on. The IR spelling of a
// type is provided by the codegen package.
package types

import "fmt"

// Kind differentiates the two primitive kinds the language supports.
type Kind int

const (
	Int Kind = iota
	Float
)

// String returns a print friendly name of the Kind.
func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return "unknown"
	}
}

// Type is either a Primitive(kind) or an Array(kind). Arrays are not
// values: callers must consult IsArray before treating a Type as an
// operand of arithmetic, relational or logical operators.
type Type struct {
	kind    Kind
	isArray bool
}

// Primitive returns the primitive type of the given Kind.
func Primitive(k Kind) Type {
	return Type{kind: k}
}

// Array returns the array-of-Kind type.
func Array(k Kind) Type {
	return Type{kind: k, isArray: true}
}

// TypeInt and TypeFloat are the two primitive types, exposed as values for
// convenient comparison at call sites that don't need to build them.
var (
	TypeInt   = Primitive(Int)
	TypeFloat = Primitive(Float)
)

// IsArray reports whether t is an array type.
func (t Type) IsArray() bool {
	return t.isArray
}

// Kind returns the element kind carried by t, whether t is a primitive or
// an array.
func (t Type) Kind() Kind {
	return t.kind
}

// ElementKind is an alias of Kind kept for parity with spec.md's
// element_kind() helper name; it documents intent at array call sites.
func (t Type) ElementKind() Kind {
	return t.kind
}

// Equal reports whether t and o are structurally equal: same variant
// (array-ness) and same element kind.
func (t Type) Equal(o Type) bool {
	return t.kind == o.kind && t.isArray == o.isArray
}

// String implements fmt.Stringer for diagnostics.
func (t Type) String() string {
	if t.isArray {
		return fmt.Sprintf("%s[]", t.kind)
	}
	return t.kind.String()
}

// ParsePrimitiveName parses a type lexeme ("int" or "float") recognized by
// the grammar. Any other lexeme is an *unknown type* error.
func ParsePrimitiveName(name string) (Kind, error) {
	switch name {
	case "int":
		return Int, nil
	case "float":
		return Float, nil
	default:
		return 0, fmt.Errorf("unknown type %q", name)
	}
}
