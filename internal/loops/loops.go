// Package loops discovers the natural-loop nesting structure of a function.
package loops

import (
	"errors"
	"fmt"
	"strings"

	"licm/internal/dom"
	"licm/internal/ir"
)

// ErrNoDomTree is returned when Build is called without a dominator tree.
var ErrNoDomTree = errors.New("loops: missing dominator tree")

// Loop is a natural loop: the header plus every block that can reach a
// back edge to the header without passing through it.
type Loop struct {
	header   *ir.Block
	blocks   []*ir.Block // layout order
	members  map[*ir.Block]bool
	parent   *Loop
	children []*Loop
	depth    int
	nest     *Nest
}

// Header returns the single entry block of the loop.
func (l *Loop) Header() *ir.Block { return l.header }

// Blocks returns the member blocks in layout order, nested loops included.
func (l *Loop) Blocks() []*ir.Block { return l.blocks }

// Contains reports whether b belongs to l or to one of its sub-loops.
func (l *Loop) Contains(b *ir.Block) bool { return l.members[b] }

// Parent returns the enclosing loop, or nil for an outermost loop.
func (l *Loop) Parent() *Loop { return l.parent }

// Children returns the immediately nested loops.
func (l *Loop) Children() []*Loop { return l.children }

// Depth is 1 for outermost loops.
func (l *Loop) Depth() int { return l.depth }

// Preheader returns the unique block outside the loop that branches to
// the header, provided the header is its only successor. It returns nil
// when the loop is not in that normal form.
func (l *Loop) Preheader() *ir.Block {
	var pre *ir.Block
	for _, p := range l.nest.preds[l.header] {
		if l.members[p] || !l.nest.dt.Reachable(p) {
			continue
		}
		if pre != nil {
			return nil
		}
		pre = p
	}
	if pre == nil {
		return nil
	}
	if succs := pre.Succs(); len(succs) != 1 || succs[0] != l.header {
		return nil
	}
	return pre
}

// ExitBlocks returns the blocks outside the loop with a predecessor inside
// it, in order of first discovery along layout order.
func (l *Loop) ExitBlocks() []*ir.Block {
	var exits []*ir.Block
	seen := make(map[*ir.Block]bool)
	for _, b := range l.blocks {
		for _, s := range b.Succs() {
			if l.members[s] || seen[s] {
				continue
			}
			seen[s] = true
			exits = append(exits, s)
		}
	}
	return exits
}

func (l *Loop) String() string {
	names := make([]string, len(l.blocks))
	for i, b := range l.blocks {
		names[i] = b.Label()
	}
	return fmt.Sprintf("loop %s depth=%d {%s}", l.header.Label(), l.depth, strings.Join(names, " "))
}

// Nest is the loop forest of one function.
type Nest struct {
	fn        *ir.Func
	dt        *dom.Tree
	preds     map[*ir.Block][]*ir.Block
	loops     []*Loop // headers in dominator pre-order, so outer before inner
	innermost map[*ir.Block]*Loop
}

// Build finds the natural loops of f. Back edges are edges whose target
// dominates their source; loops sharing a header are merged.
func Build(f *ir.Func, dt *dom.Tree) (*Nest, error) {
	if dt == nil {
		return nil, ErrNoDomTree
	}
	n := &Nest{
		fn:        f,
		dt:        dt,
		preds:     f.Preds(),
		innermost: make(map[*ir.Block]*Loop),
	}
	for _, h := range dt.Preorder() {
		var latches []*ir.Block
		for _, p := range n.preds[h] {
			if dt.Dominates(h, p) {
				latches = append(latches, p)
			}
		}
		if len(latches) == 0 {
			continue
		}
		n.loops = append(n.loops, n.collect(h, latches))
	}
	n.link()
	return n, nil
}

// collect gathers the body of the loop headed by h by walking
// predecessors backwards from the latches.
func (n *Nest) collect(h *ir.Block, latches []*ir.Block) *Loop {
	members := map[*ir.Block]bool{h: true}
	work := make([]*ir.Block, 0, len(latches))
	for _, l := range latches {
		if !members[l] {
			members[l] = true
			work = append(work, l)
		}
	}
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		for _, p := range n.preds[b] {
			if members[p] || !n.dt.Reachable(p) {
				continue
			}
			members[p] = true
			work = append(work, p)
		}
	}
	l := &Loop{header: h, members: members, nest: n}
	for _, b := range n.fn.Blocks {
		if members[b] {
			l.blocks = append(l.blocks, b)
		}
	}
	return l
}

// link derives parents, children, depths and the innermost loop of each
// block. A loop's parent is the smallest other loop containing its header.
func (n *Nest) link() {
	for _, l := range n.loops {
		for _, o := range n.loops {
			if o == l || !o.members[l.header] {
				continue
			}
			if l.parent == nil || len(o.blocks) < len(l.parent.blocks) {
				l.parent = o
			}
		}
	}
	// n.loops is in dominator pre-order of headers, so parents come first.
	for _, l := range n.loops {
		if l.parent == nil {
			l.depth = 1
		} else {
			l.depth = l.parent.depth + 1
			l.parent.children = append(l.parent.children, l)
		}
	}
	for _, l := range n.loops {
		for _, b := range l.blocks {
			if cur, ok := n.innermost[b]; !ok || l.depth > cur.depth {
				n.innermost[b] = l
			}
		}
	}
}

// Func returns the analysed function.
func (n *Nest) Func() *ir.Func { return n.fn }

// Loops returns every loop, outer loops before the loops they contain.
func (n *Nest) Loops() []*Loop { return n.loops }

// Roots returns the outermost loops.
func (n *Nest) Roots() []*Loop {
	var out []*Loop
	for _, l := range n.loops {
		if l.parent == nil {
			out = append(out, l)
		}
	}
	return out
}

// LoopOf returns the innermost loop containing b, or nil.
func (n *Nest) LoopOf(b *ir.Block) *Loop { return n.innermost[b] }

// InnermostFirst returns every loop with each loop preceded by all of
// the loops nested in it.
func (n *Nest) InnermostFirst() []*Loop {
	out := make([]*Loop, 0, len(n.loops))
	var visit func(l *Loop)
	visit = func(l *Loop) {
		for _, c := range l.children {
			visit(c)
		}
		out = append(out, l)
	}
	for _, r := range n.Roots() {
		visit(r)
	}
	return out
}
