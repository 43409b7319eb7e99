package codegen

import (
	irtypes "github.com/llir/llvm/ir/types"

	"vslc/src/types"
)

// ToLLVM converts a domain Kind to its llir/llvm scalar type: int maps to
// i64, float to double, matching spec.md's fixed-width type model (no
// narrower integer or single-precision float kind exists in the
// language).
func ToLLVM(k types.Kind) irtypes.Type {
	if k == types.Float {
		return irtypes.Double
	}
	return irtypes.I64
}

// ToLLVMType converts a full domain Type, including its array-ness, to the
// llir/llvm type used to declare storage for it: a bare scalar for a
// primitive, a pointer to that scalar for an array (arrays are always
// addressed through a pointer to their first element, never passed by
// value).
func ToLLVMType(t types.Type) irtypes.Type {
	elem := ToLLVM(t.Kind())
	if t.IsArray() {
		return irtypes.NewPointer(elem)
	}
	return elem
}
