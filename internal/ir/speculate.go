package ir

// Speculatable reports whether in can be executed unconditionally without
// trapping or producing an effect the original program might not have had.
// Integer division and remainder trap on a zero divisor, and on a -1
// divisor when the dividend is the minimum integer, so they only qualify
// with a constant divisor other than 0 and -1.
func Speculatable(in *Instr) bool {
	switch in.Op.Class() {
	case ClassConst, ClassShift, ClassCompare, ClassCast, ClassSelect, ClassAddr:
		return true
	case ClassArith:
		if in.Op != OpDiv && in.Op != OpRem {
			return true
		}
		if len(in.Args) != 2 {
			return false
		}
		d := in.Args[1]
		if !d.IsConst() {
			return false
		}
		if d.Const.Type == TypeFloat {
			return true
		}
		return !d.Const.IsZero() && d.Const.Int != -1
	}
	return false
}
