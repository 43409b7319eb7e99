package codegen

import "errors"

// Sentinel errors forming the error taxonomy of the code-generation core.
// Call sites wrap one of these with github.com/pkg/errors.Wrapf to attach
// positional context; errors.Is still matches the underlying sentinel.
//
// *undefined variable*, *duplicate variable*, *duplicate function* and
// *undefined function* are symtab.ErrUndefinedVariable and friends: the
// scope chain and function table are the ones that detect them, so they
// own the sentinels.
var (
	ErrArityMismatch           = errors.New("arity mismatch")
	ErrTypeMismatch            = errors.New("type mismatch")
	ErrNotAnArray              = errors.New("not an array")
	ErrCannotAssignToArray     = errors.New("cannot assign to array")
	ErrCannotScanIntoArray     = errors.New("cannot scan into array")
	ErrIndexMustBeInt          = errors.New("index must be int")
	ErrConditionMustBeInt      = errors.New("condition must be int")
	ErrLogicalOperandMustBeInt = errors.New("logical operand must be int")
	ErrArrayOperandForbidden   = errors.New("array operand forbidden")
	ErrMissingArraySize        = errors.New("missing array size")
	ErrUnknownOperator         = errors.New("unknown operator")
	ErrUnknownType             = errors.New("unknown type")
)
