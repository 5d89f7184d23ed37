package ir

type TermKind uint8

const (
	TermNone TermKind = iota
	TermGoto
	TermIf
	TermReturn
	TermUnreachable
)

type Terminator struct {
	Kind TermKind

	Goto   GotoTerm
	If     IfTerm
	Return ReturnTerm
}

type GotoTerm struct {
	Target *Block
}

type IfTerm struct {
	Cond Operand
	Then *Block
	Else *Block
}

type ReturnTerm struct {
	HasValue bool
	Value    Operand
}

// Targets returns the successor blocks in edge order; duplicates are kept.
func (t *Terminator) Targets() []*Block {
	switch t.Kind {
	case TermGoto:
		return []*Block{t.Goto.Target}
	case TermIf:
		return []*Block{t.If.Then, t.If.Else}
	}
	return nil
}

// Operands returns the values read by the terminator.
func (t *Terminator) Operands() []Operand {
	switch t.Kind {
	case TermIf:
		return []Operand{t.If.Cond}
	case TermReturn:
		if t.Return.HasValue {
			return []Operand{t.Return.Value}
		}
	}
	return nil
}

// Retarget replaces every edge to from with an edge to to.
func (t *Terminator) Retarget(from, to *Block) bool {
	changed := false
	switch t.Kind {
	case TermGoto:
		if t.Goto.Target == from {
			t.Goto.Target = to
			changed = true
		}
	case TermIf:
		if t.If.Then == from {
			t.If.Then = to
			changed = true
		}
		if t.If.Else == from {
			t.If.Else = to
			changed = true
		}
	}
	return changed
}
