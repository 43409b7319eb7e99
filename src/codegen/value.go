package codegen

import (
	"github.com/llir/llvm/ir/value"

	"vslc/src/types"
)

// Val is the evaluator's value handle: an llir/llvm SSA value paired with
// its domain Type. Every expression-producing evaluate function returns
// one; every statement-producing function returns none.
type Val struct {
	V value.Value
	T types.Type
}
