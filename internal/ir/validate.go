package ir

import (
	"errors"
	"fmt"
)

// Validate checks module invariants.
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, f := range m.Funcs {
		if err := ValidateFunc(f); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateFunc checks the structural invariants of a single function.
func ValidateFunc(f *Func) error {
	if f == nil {
		return nil
	}
	if f.Entry == nil {
		return errors.New("missing entry block")
	}

	var errs []error

	// 1. Every block terminated
	if err := validateBlocksTerminated(f); err != nil {
		errs = append(errs, err)
	}

	// 2. Targets belong to f
	if err := validateBlockTargets(f); err != nil {
		errs = append(errs, err)
	}

	// 3. Ownership back-pointers and unique IDs
	if err := validateOwnership(f); err != nil {
		errs = append(errs, err)
	}

	// 4. Operands reference values of f
	if err := validateOperands(f); err != nil {
		errs = append(errs, err)
	}

	// 5. Phi shape
	if err := validatePhis(f); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateBlocksTerminated(f *Func) error {
	var errs []error
	for _, b := range f.Blocks {
		if b.Term.Kind == TermNone {
			errs = append(errs, fmt.Errorf("%s: unterminated block", b.Label()))
		}
	}
	return errors.Join(errs...)
}

func validateBlockTargets(f *Func) error {
	var errs []error
	owned := make(map[*Block]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		owned[b] = true
	}
	if !owned[f.Entry] {
		errs = append(errs, fmt.Errorf("entry %s is not a block of the function", f.Entry.Label()))
	}
	for _, b := range f.Blocks {
		for _, t := range b.Term.Targets() {
			if t == nil || !owned[t] {
				errs = append(errs, fmt.Errorf("%s: branch target %s does not exist", b.Label(), t.Label()))
			}
		}
	}
	return errors.Join(errs...)
}

func validateOwnership(f *Func) error {
	var errs []error
	seen := make(map[ValueID]*Instr)
	check := func(in *Instr, where string) {
		if prev, ok := seen[in.ID]; ok && prev != in {
			errs = append(errs, fmt.Errorf("%s: value ID %d defined twice (%s, %s)", where, in.ID, prev.Ref(), in.Ref()))
		}
		seen[in.ID] = in
	}
	for _, p := range f.Params {
		if p.Op != OpParam || p.Block != nil {
			errs = append(errs, fmt.Errorf("param %s: must be an unowned param value", p.Ref()))
		}
		check(p, "params")
	}
	for _, b := range f.Blocks {
		if b.Func != f {
			errs = append(errs, fmt.Errorf("%s: block owned by another function", b.Label()))
		}
		for _, in := range b.Instrs {
			if in.Block != b {
				errs = append(errs, fmt.Errorf("%s: %s has owner %s", b.Label(), in.Ref(), in.Block.Label()))
			}
			if in.Op == OpParam {
				errs = append(errs, fmt.Errorf("%s: param %s inside a block", b.Label(), in.Ref()))
			}
			check(in, b.Label())
		}
	}
	return errors.Join(errs...)
}

func validateOperands(f *Func) error {
	var errs []error
	values := make(map[*Instr]bool)
	for _, p := range f.Params {
		values[p] = true
	}
	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			values[in] = true
		}
	}
	checkOp := func(a Operand, where string) {
		if a.Def == nil {
			return
		}
		if !values[a.Def] {
			errs = append(errs, fmt.Errorf("%s: operand %s is not defined in the function", where, a.Def.Ref()))
			return
		}
		if !a.Def.HasResult() {
			errs = append(errs, fmt.Errorf("%s: operand %s has no result", where, a.Def.Ref()))
		}
	}
	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			where := b.Label() + ": " + in.Ref()
			if n := in.Op.Arity(); n >= 0 && len(in.Args) != n {
				errs = append(errs, fmt.Errorf("%s: %s expects %d operands, got %d", where, in.Op, n, len(in.Args)))
			}
			for _, a := range in.Args {
				checkOp(a, where)
			}
		}
		for _, a := range b.Term.Operands() {
			checkOp(a, b.Label()+": terminator")
		}
	}
	return errors.Join(errs...)
}

func validatePhis(f *Func) error {
	var errs []error
	preds := f.Preds()
	for _, b := range f.Blocks {
		for i, in := range b.Instrs {
			if in.Op != OpPhi {
				continue
			}
			if i > 0 && b.Instrs[i-1].Op != OpPhi {
				errs = append(errs, fmt.Errorf("%s: phi %s after a non-phi instruction", b.Label(), in.Ref()))
			}
			if len(in.PhiFrom) != len(in.Args) {
				errs = append(errs, fmt.Errorf("%s: phi %s has %d values for %d edges", b.Label(), in.Ref(), len(in.Args), len(in.PhiFrom)))
				continue
			}
			if len(in.PhiFrom) != len(preds[b]) {
				errs = append(errs, fmt.Errorf("%s: phi %s has %d incoming edges, block has %d predecessors",
					b.Label(), in.Ref(), len(in.PhiFrom), len(preds[b])))
			}
			for _, from := range in.PhiFrom {
				if !containsBlock(preds[b], from) {
					errs = append(errs, fmt.Errorf("%s: phi %s incoming from non-predecessor %s", b.Label(), in.Ref(), from.Label()))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func containsBlock(list []*Block, b *Block) bool {
	for _, x := range list {
		if x == b {
			return true
		}
	}
	return false
}
