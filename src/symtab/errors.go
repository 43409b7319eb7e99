package symtab

import "errors"

// Sentinel errors returned by Scope and FuncTable lookups. Callers wrap
// these with positional context via errors.Wrapf; errors.Is still matches
// against the taxonomy underneath.
var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrDuplicateVariable = errors.New("duplicate variable declaration")
	ErrUndefinedFunction = errors.New("undefined function")
	ErrDuplicateFunction = errors.New("duplicate function declaration")
)
