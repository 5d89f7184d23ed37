// Package licm hoists loop-invariant instructions into loop preheaders.
//
// The engine consumes dominance, loop structure and speculatability
// through the interfaces below, so any analysis that answers these
// queries can drive it. RunFunc and RunModule wire in the dom and loops
// packages for whole-function use.
package licm

import (
	"licm/internal/dom"
	"licm/internal/ir"
	"licm/internal/loops"
)

// Loop is the view of a single loop the engine needs.
type Loop interface {
	Header() *ir.Block
	// Preheader returns nil when the loop has no dedicated preheader.
	Preheader() *ir.Block
	ExitBlocks() []*ir.Block
	// Contains reports membership of b in the loop or any nested loop.
	Contains(b *ir.Block) bool
}

// LoopInfo maps blocks to their innermost enclosing loop.
type LoopInfo interface {
	// LoopOf returns nil for blocks outside every loop.
	LoopOf(b *ir.Block) Loop
}

// Dominance answers dominator-tree queries.
type Dominance interface {
	Dominates(a, b *ir.Block) bool
	Children(b *ir.Block) []*ir.Block
	Root() *ir.Block
}

// Speculator decides whether an instruction may run on paths where the
// original program would not have run it.
type Speculator interface {
	IsSafeToExecuteUnconditionally(in *ir.Instr) bool
}

// SpeculatorFunc adapts a plain function to Speculator.
type SpeculatorFunc func(in *ir.Instr) bool

func (f SpeculatorFunc) IsSafeToExecuteUnconditionally(in *ir.Instr) bool { return f(in) }

// DefaultSpeculator answers with ir.Speculatable.
var DefaultSpeculator Speculator = SpeculatorFunc(ir.Speculatable)

var _ Dominance = (*dom.Tree)(nil)
var _ Loop = (*loops.Loop)(nil)

// nestInfo exposes a loops.Nest as LoopInfo. The explicit nil check keeps
// a nil *loops.Loop from turning into a non-nil Loop interface.
type nestInfo struct {
	nest *loops.Nest
}

// NestInfo adapts n to LoopInfo.
func NestInfo(n *loops.Nest) LoopInfo { return nestInfo{nest: n} }

func (n nestInfo) LoopOf(b *ir.Block) Loop {
	if l := n.nest.LoopOf(b); l != nil {
		return l
	}
	return nil
}
