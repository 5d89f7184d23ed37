package licm

import "licm/internal/ir"

// Hoist moves in out of its block and places it last in the preheader,
// before the terminator. Repeated calls keep hoisted instructions in the
// order they were hoisted.
func Hoist(in *ir.Instr, preheader *ir.Block) {
	if src := in.Block; src != nil {
		src.Remove(in)
	}
	preheader.Append(in)
}

// checkAvailable verifies that every operand of an instruction just
// hoisted into pre is defined earlier in pre, or outside l in a block
// that dominates pre.
func checkAvailable(in *ir.Instr, l Loop, pre *ir.Block, dt Dominance) error {
	pos := pre.Index(in)
	for _, a := range in.Args {
		if a.IsConst() || a.Def.Block == nil {
			continue
		}
		def := a.Def
		if def.Block == pre {
			if pre.Index(def) >= pos {
				return fmtUseBeforeDef(in, def)
			}
			continue
		}
		if l.Contains(def.Block) || !dt.Dominates(def.Block, pre) {
			return fmtUseBeforeDef(in, def)
		}
	}
	return nil
}
