package licm

import "licm/internal/ir"

// Eligible reports whether op belongs to a class the engine may treat as
// invariant: arithmetic, shifts, comparisons, casts, select, address
// computation and constants. Memory operations, calls, phis and
// allocations never are.
func Eligible(op ir.Op) bool {
	switch op.Class() {
	case ir.ClassConst, ir.ClassArith, ir.ClassShift, ir.ClassCompare,
		ir.ClassCast, ir.ClassSelect, ir.ClassAddr:
		return true
	}
	return false
}

// IsInvariant reports whether in computes the same value on every
// iteration of l, judged on the current IR. Instructions hoisted earlier
// in the same pass live in the preheader and so count as outside l.
func IsInvariant(in *ir.Instr, l Loop) bool {
	if !Eligible(in.Op) {
		return false
	}
	if len(in.Args) == 0 {
		return true
	}
	allConst := allOperandsConstant(in)
	allOutside := allOperandsDefinedOutside(in, l)
	return allConst || allOutside
}

func allOperandsConstant(in *ir.Instr) bool {
	for _, a := range in.Args {
		if !a.IsConst() {
			return false
		}
	}
	return true
}

func allOperandsDefinedOutside(in *ir.Instr, l Loop) bool {
	for _, a := range in.Args {
		if !definedOutside(a, l) {
			return false
		}
	}
	return true
}

func definedOutside(a ir.Operand, l Loop) bool {
	if a.IsConst() {
		return true
	}
	return a.Def.Block == nil || !l.Contains(a.Def.Block)
}
