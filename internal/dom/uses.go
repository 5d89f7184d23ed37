package dom

import (
	"errors"
	"fmt"

	"licm/internal/ir"
)

// ErrUseNotDominated marks a read of a value whose definition does not
// dominate the read.
var ErrUseNotDominated = errors.New("dom: definition does not dominate use")

// CheckUses verifies the SSA dominance property of f: every operand is
// defined in a block that dominates the block reading it, and earlier in
// the same block. A phi reads its argument at the end of the matching
// predecessor. Reads in unreachable blocks, or along edges from them, are
// not constrained.
func (t *Tree) CheckUses(f *ir.Func) error {
	var errs []error
	for _, b := range f.Blocks {
		if !t.Reachable(b) {
			continue
		}
		for i, in := range b.Instrs {
			for j, a := range in.Args {
				if a.Def == nil {
					continue
				}
				u := ir.Use{User: in, Index: j}
				if in.Op != ir.OpPhi && a.Def.Block == b {
					if b.Index(a.Def) >= i {
						errs = append(errs, useError(b, in.Ref(), a.Def))
					}
					continue
				}
				site := u.Site()
				if !t.Reachable(site) {
					continue
				}
				if !t.DominatesInstr(a.Def, site) {
					errs = append(errs, useError(b, in.Ref(), a.Def))
				}
			}
		}
		for _, a := range b.Term.Operands() {
			if a.Def != nil && !t.DominatesInstr(a.Def, b) {
				errs = append(errs, useError(b, "terminator", a.Def))
			}
		}
	}
	return errors.Join(errs...)
}

func useError(b *ir.Block, user string, def *ir.Instr) error {
	return fmt.Errorf("%s: %s reads %s: %w", b.Label(), user, def.Ref(), ErrUseNotDominated)
}
