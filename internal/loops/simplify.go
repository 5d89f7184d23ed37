package loops

import (
	"fmt"

	"licm/internal/dom"
	"licm/internal/ir"
)

// EnsurePreheaders gives every loop of f a preheader, inserting a new
// block in front of the header where needed. Outside edges into the
// header are redirected through the new block and header phis are split
// accordingly. It reports whether f changed; dominator and loop
// information computed before the call must be rebuilt if it did.
func EnsurePreheaders(f *ir.Func) (bool, error) {
	changed := false
	for {
		dt, err := dom.Build(f)
		if err != nil {
			return changed, err
		}
		nest, err := Build(f, dt)
		if err != nil {
			return changed, err
		}
		var target *Loop
		for _, l := range nest.loops {
			if l.Preheader() == nil {
				target = l
				break
			}
		}
		if target == nil {
			return changed, nil
		}
		insertPreheader(f, target)
		changed = true
	}
}

func insertPreheader(f *ir.Func, l *Loop) *ir.Block {
	h := l.header
	var outside []*ir.Block
	for _, p := range l.nest.preds[h] {
		if !l.members[p] {
			outside = append(outside, p)
		}
	}

	pre := f.InsertBlockBefore(h, uniqueLabel(f, h.Label()+".preheader"))
	pre.Goto(h)
	for _, p := range outside {
		p.Term.Retarget(h, pre)
	}
	if f.Entry == h {
		f.Entry = pre
	}

	for _, phi := range h.Instrs {
		if phi.Op != ir.OpPhi {
			break
		}
		var inArgs, outArgs []ir.Operand
		var inFrom, outFrom []*ir.Block
		for i, from := range phi.PhiFrom {
			if l.members[from] {
				inArgs = append(inArgs, phi.Args[i])
				inFrom = append(inFrom, from)
			} else {
				outArgs = append(outArgs, phi.Args[i])
				outFrom = append(outFrom, from)
			}
		}
		if len(outArgs) == 0 {
			continue
		}
		v := outArgs[0]
		if !sameOperands(outArgs) {
			merged := pre.Phi(phi.Type, uniqueValue(f, phi.Ref()+".pre"))
			for i := range outArgs {
				merged.AddIncoming(outFrom[i], outArgs[i])
			}
			v = ir.Val(merged)
		}
		phi.Args = append(inArgs, v)
		phi.PhiFrom = append(inFrom, pre)
	}
	return pre
}

func sameOperands(ops []ir.Operand) bool {
	for _, o := range ops[1:] {
		if o != ops[0] {
			return false
		}
	}
	return true
}

func uniqueLabel(f *ir.Func, base string) string {
	name := base
	for i := 1; f.Block(name) != nil; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	return name
}

func uniqueValue(f *ir.Func, base string) string {
	name := base
	for i := 1; f.Value(name) != nil; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	return name
}
