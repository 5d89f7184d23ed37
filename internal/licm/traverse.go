package licm

import "licm/internal/ir"

// Preorder returns the blocks dominated by the loop header in
// dominator-tree pre-order: each block precedes every block it
// dominates. Blocks outside the loop that the header dominates are
// included; callers filter by loop membership.
func Preorder(l Loop, dt Dominance) []*ir.Block {
	header := l.Header()
	if header == nil || dt == nil {
		return nil
	}
	var order []*ir.Block
	stack := []*ir.Block{header}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, b)
		kids := dt.Children(b)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return order
}
