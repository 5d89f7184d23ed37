package ir

// Block is a basic block: an ordered instruction list followed by a
// single terminator. Instructions appended to a block always land
// before the terminator.
type Block struct {
	ID     BlockID
	Name   string
	Instrs []*Instr
	Term   Terminator

	Func *Func
}

func (b *Block) Terminated() bool {
	if b == nil {
		return true
	}
	return b.Term.Kind != TermNone
}

// Label returns the block name used in text form.
func (b *Block) Label() string {
	if b == nil {
		return "<nil>"
	}
	if b.Name != "" {
		return b.Name
	}
	return "bb" + itoa(int(b.ID))
}

func (b *Block) String() string { return b.Label() }

// Succs returns the distinct successors of b in edge order.
func (b *Block) Succs() []*Block {
	targets := b.Term.Targets()
	if len(targets) < 2 || targets[0] != targets[1] {
		return targets
	}
	return targets[:1]
}

// Index returns the position of in within b, or -1.
func (b *Block) Index(in *Instr) int {
	for i, x := range b.Instrs {
		if x == in {
			return i
		}
	}
	return -1
}

// Append transfers ownership of in to b, placing it last before the terminator.
// The caller must have detached in from its previous block.
func (b *Block) Append(in *Instr) {
	in.Block = b
	b.Instrs = append(b.Instrs, in)
}

// Remove detaches in from b, preserving the order of the remaining
// instructions. It reports whether in was found.
func (b *Block) Remove(in *Instr) bool {
	i := b.Index(in)
	if i < 0 {
		return false
	}
	copy(b.Instrs[i:], b.Instrs[i+1:])
	b.Instrs[len(b.Instrs)-1] = nil
	b.Instrs = b.Instrs[:len(b.Instrs)-1]
	if in.Block == b {
		in.Block = nil
	}
	return true
}

// Emit creates a new instruction in b's function and appends it to b.
func (b *Block) Emit(op Op, ty Type, name string, args ...Operand) *Instr {
	in := b.Func.NewInstr(op, ty, name, args...)
	b.Append(in)
	return in
}

// Phi appends an empty phi; incoming values are added with AddIncoming.
func (b *Block) Phi(ty Type, name string) *Instr {
	return b.Emit(OpPhi, ty, name)
}

// Const appends a nullary instruction producing c.
func (b *Block) Const(name string, c Const) *Instr {
	in := b.Emit(OpConst, c.Type, name)
	in.Value = c
	return in
}

// Call appends a call to callee.
func (b *Block) Call(ty Type, name, callee string, args ...Operand) *Instr {
	in := b.Emit(OpCall, ty, name, args...)
	in.Callee = callee
	return in
}

func (b *Block) Goto(target *Block) {
	b.Term = Terminator{Kind: TermGoto, Goto: GotoTerm{Target: target}}
}

func (b *Block) If(cond Operand, then, els *Block) {
	b.Term = Terminator{Kind: TermIf, If: IfTerm{Cond: cond, Then: then, Else: els}}
}

func (b *Block) Return() {
	b.Term = Terminator{Kind: TermReturn}
}

func (b *Block) ReturnValue(v Operand) {
	b.Term = Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: true, Value: v}}
}

func (b *Block) Unreachable() {
	b.Term = Terminator{Kind: TermUnreachable}
}
