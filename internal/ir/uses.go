package ir

// Use is one read of a value. User is nil when the value is read by the
// terminator of Term.
type Use struct {
	User  *Instr
	Term  *Block
	Index int
}

// Site returns the block in which the use takes place. A phi reads its
// argument at the end of the corresponding predecessor.
func (u Use) Site() *Block {
	if u.User == nil {
		return u.Term
	}
	if u.User.Op == OpPhi && u.Index < len(u.User.PhiFrom) {
		return u.User.PhiFrom[u.Index]
	}
	return u.User.Block
}

// UseMap maps each value to its uses. Moving an instruction between
// blocks does not invalidate it.
type UseMap map[*Instr][]Use

// ComputeUses collects every use of every value in f.
func ComputeUses(f *Func) UseMap {
	uses := make(UseMap)
	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			for i, a := range in.Args {
				if a.Def != nil {
					uses[a.Def] = append(uses[a.Def], Use{User: in, Index: i})
				}
			}
		}
		for i, a := range b.Term.Operands() {
			if a.Def != nil {
				uses[a.Def] = append(uses[a.Def], Use{Term: b, Index: i})
			}
		}
	}
	return uses
}
