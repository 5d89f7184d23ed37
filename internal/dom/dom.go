// Package dom computes dominator trees over ir functions.
package dom

import (
	"errors"
	"fmt"

	"licm/internal/ir"
)

// ErrNoEntry is returned for functions without an entry block.
var ErrNoEntry = errors.New("dom: function has no entry block")

// Tree is the dominator tree of a function. It is a snapshot: adding or
// removing CFG edges invalidates it, moving instructions does not.
type Tree struct {
	root     *ir.Block
	idom     map[*ir.Block]*ir.Block
	children map[*ir.Block][]*ir.Block
	pre      map[*ir.Block]int32
	post     map[*ir.Block]int32
}

// Build computes the dominator tree of f with the iterative algorithm of
// Cooper, Harvey and Kennedy. Blocks unreachable from the entry are left
// out of the tree.
func Build(f *ir.Func) (*Tree, error) {
	if f == nil || f.Entry == nil {
		return nil, ErrNoEntry
	}
	order := reversePostorder(f.Entry)
	rpo := make(map[*ir.Block]int, len(order))
	for i, b := range order {
		rpo[b] = i
	}

	preds := f.Preds()
	idom := make(map[*ir.Block]*ir.Block, len(order))
	idom[f.Entry] = f.Entry

	intersect := func(a, b *ir.Block) *ir.Block {
		for a != b {
			for rpo[a] > rpo[b] {
				a = idom[a]
			}
			for rpo[b] > rpo[a] {
				b = idom[b]
			}
		}
		return a
	}

	for changed := true; changed; {
		changed = false
		for _, b := range order[1:] {
			var newIdom *ir.Block
			for _, p := range preds[b] {
				if _, ok := idom[p]; !ok {
					// unprocessed or unreachable
					continue
				}
				if newIdom == nil {
					newIdom = p
				} else {
					newIdom = intersect(p, newIdom)
				}
			}
			if newIdom == nil {
				return nil, fmt.Errorf("dom: %s: reachable block without processed predecessor", b.Label())
			}
			if idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}

	t := &Tree{
		root:     f.Entry,
		idom:     idom,
		children: make(map[*ir.Block][]*ir.Block, len(order)),
		pre:      make(map[*ir.Block]int32, len(order)),
		post:     make(map[*ir.Block]int32, len(order)),
	}
	// Children in layout order keep traversals deterministic.
	for _, b := range f.Blocks {
		p, ok := idom[b]
		if !ok || b == f.Entry {
			continue
		}
		t.children[p] = append(t.children[p], b)
	}
	t.number()
	return t, nil
}

// reversePostorder returns the blocks reachable from entry in reverse
// postorder of a depth-first walk over successors.
func reversePostorder(entry *ir.Block) []*ir.Block {
	type frame struct {
		b    *ir.Block
		next int
	}
	seen := map[*ir.Block]bool{entry: true}
	var post []*ir.Block
	stack := []frame{{b: entry}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		succs := top.b.Succs()
		if top.next < len(succs) {
			s := succs[top.next]
			top.next++
			if !seen[s] {
				seen[s] = true
				stack = append(stack, frame{b: s})
			}
			continue
		}
		post = append(post, top.b)
		stack = stack[:len(stack)-1]
	}
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// number assigns pre- and post-order numbers within the tree so that
// Dominates is a constant-time interval test.
func (t *Tree) number() {
	type frame struct {
		b    *ir.Block
		next int
	}
	var pre, post int32
	t.pre[t.root] = pre
	pre++
	stack := []frame{{b: t.root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		kids := t.children[top.b]
		if top.next < len(kids) {
			c := kids[top.next]
			top.next++
			t.pre[c] = pre
			pre++
			stack = append(stack, frame{b: c})
			continue
		}
		t.post[top.b] = post
		post++
		stack = stack[:len(stack)-1]
	}
}

// Root returns the entry block.
func (t *Tree) Root() *ir.Block { return t.root }

// Idom returns the immediate dominator of b; nil for the root and for
// unreachable blocks.
func (t *Tree) Idom(b *ir.Block) *ir.Block {
	if b == t.root {
		return nil
	}
	return t.idom[b]
}

// Children returns the blocks immediately dominated by b.
func (t *Tree) Children(b *ir.Block) []*ir.Block { return t.children[b] }

// Reachable reports whether b is reachable from the entry.
func (t *Tree) Reachable(b *ir.Block) bool {
	_, ok := t.pre[b]
	return ok
}

// Dominates reports whether a dominates b. Every block dominates itself;
// unreachable blocks dominate nothing and are dominated by nothing.
func (t *Tree) Dominates(a, b *ir.Block) bool {
	pa, ok := t.pre[a]
	if !ok {
		return false
	}
	pb, ok := t.pre[b]
	if !ok {
		return false
	}
	return pa <= pb && t.post[b] <= t.post[a]
}

// StrictlyDominates reports whether a dominates b and a != b.
func (t *Tree) StrictlyDominates(a, b *ir.Block) bool {
	return a != b && t.Dominates(a, b)
}

// DominatesInstr reports whether in dominates b, approximated by the
// instruction's block dominating b. Parameters dominate every block.
func (t *Tree) DominatesInstr(in *ir.Instr, b *ir.Block) bool {
	if in.Block == nil {
		return in.Op == ir.OpParam && t.Reachable(b)
	}
	return t.Dominates(in.Block, b)
}

// Preorder returns the reachable blocks in dominator-tree pre-order.
func (t *Tree) Preorder() []*ir.Block {
	out := make([]*ir.Block, 0, len(t.pre))
	stack := []*ir.Block{t.root}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, b)
		kids := t.children[b]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}
