package ir

// Op enumerates instruction opcodes.
type Op uint8

const (
	OpInvalid Op = iota
	OpParam
	OpConst

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpAnd
	OpOr
	OpXor

	OpShl
	OpShr

	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	OpTrunc
	OpZExt
	OpSExt
	OpIToF
	OpFToI
	OpBitcast

	OpSelect
	OpPtrAdd

	OpLoad
	OpStore
	OpCall
	OpPhi
	OpAlloc

	opCount
)

// Class groups opcodes by the kind of computation they perform.
type Class uint8

const (
	ClassOther Class = iota
	ClassParam
	ClassConst
	ClassArith
	ClassShift
	ClassCompare
	ClassCast
	ClassSelect
	ClassAddr
	ClassMemory
	ClassCall
	ClassPhi
	ClassAlloc
)

var opNames = [opCount]string{
	OpInvalid: "invalid",
	OpParam:   "param",
	OpConst:   "const",
	OpAdd:     "add",
	OpSub:     "sub",
	OpMul:     "mul",
	OpDiv:     "div",
	OpRem:     "rem",
	OpAnd:     "and",
	OpOr:      "or",
	OpXor:     "xor",
	OpShl:     "shl",
	OpShr:     "shr",
	OpEq:      "eq",
	OpNe:      "ne",
	OpLt:      "lt",
	OpLe:      "le",
	OpGt:      "gt",
	OpGe:      "ge",
	OpTrunc:   "trunc",
	OpZExt:    "zext",
	OpSExt:    "sext",
	OpIToF:    "itof",
	OpFToI:    "ftoi",
	OpBitcast: "bitcast",
	OpSelect:  "select",
	OpPtrAdd:  "ptradd",
	OpLoad:    "load",
	OpStore:   "store",
	OpCall:    "call",
	OpPhi:     "phi",
	OpAlloc:   "alloc",
}

var opsByName = func() map[string]Op {
	m := make(map[string]Op, len(opNames))
	for op, name := range opNames {
		if Op(op) == OpInvalid || Op(op) == OpParam {
			continue
		}
		m[name] = Op(op)
	}
	return m
}()

func (op Op) String() string {
	if op < opCount {
		return opNames[op]
	}
	return "invalid"
}

// LookupOp returns the opcode spelled name in the text form.
func LookupOp(name string) (Op, bool) {
	op, ok := opsByName[name]
	return op, ok
}

// Class reports the computation class of op.
func (op Op) Class() Class {
	switch op {
	case OpParam:
		return ClassParam
	case OpConst:
		return ClassConst
	case OpAdd, OpSub, OpMul, OpDiv, OpRem, OpAnd, OpOr, OpXor:
		return ClassArith
	case OpShl, OpShr:
		return ClassShift
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return ClassCompare
	case OpTrunc, OpZExt, OpSExt, OpIToF, OpFToI, OpBitcast:
		return ClassCast
	case OpSelect:
		return ClassSelect
	case OpPtrAdd:
		return ClassAddr
	case OpLoad, OpStore:
		return ClassMemory
	case OpCall:
		return ClassCall
	case OpPhi:
		return ClassPhi
	case OpAlloc:
		return ClassAlloc
	default:
		return ClassOther
	}
}

// Arity returns the fixed operand count of op, or -1 when it is variadic.
func (op Op) Arity() int {
	switch op.Class() {
	case ClassParam, ClassConst:
		return 0
	case ClassArith, ClassShift, ClassCompare, ClassAddr:
		return 2
	case ClassCast:
		return 1
	case ClassSelect:
		return 3
	case ClassMemory:
		if op == OpLoad {
			return 1
		}
		return 2
	case ClassAlloc:
		return 1
	default:
		return -1
	}
}

// HasSideEffects reports whether executing op can be observed beyond its result.
func (op Op) HasSideEffects() bool {
	switch op {
	case OpStore, OpCall, OpAlloc:
		return true
	}
	return false
}
