package licm

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"licm/internal/ir"
	"licm/internal/trace"
)

// State is the phase of a single-loop run.
type State uint8

const (
	StateStart State = iota
	StateTraversing
	StateHoisting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateTraversing:
		return "traversing"
	case StateHoisting:
		return "hoisting"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Env carries the analyses a run consumes. Dom and Loops are read-only
// snapshots; hoisting only moves instructions into the preheader, which
// leaves both valid for the rest of the run.
type Env struct {
	Dom   Dominance
	Loops LoopInfo
	// Spec defaults to DefaultSpeculator.
	Spec Speculator
	// Uses is computed from the header's function when nil.
	Uses ir.UseMap
	// Verify re-checks operand availability after every hoist.
	Verify bool
}

// Stats counts what a run looked at and did.
type Stats struct {
	Loops      int
	Blocks     int
	Candidates int
	Invariant  int
	Unsafe     int
	Hoisted    int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Loops += o.Loops
	s.Blocks += o.Blocks
	s.Candidates += o.Candidates
	s.Invariant += o.Invariant
	s.Unsafe += o.Unsafe
	s.Hoisted += o.Hoisted
}

// Result reports the outcome of Run.
type Result struct {
	Changed bool
	// Hoisted lists moved instructions in the order they now appear in the preheader.
	Hoisted []*ir.Instr
	Stats   Stats
	State   State
}

// Run hoists the invariant, safely movable instructions of l into its
// preheader. Blocks are visited in dominator-tree pre-order from the
// header and only instructions whose block belongs to l itself, not to
// a nested loop, are considered.
//
// A missing preheader, header or analysis is a precondition violation
// and returns an error before anything is moved. If verification fails
// part-way, hoists already performed are kept.
func Run(ctx context.Context, l Loop, env Env) (Result, error) {
	res := Result{State: StateStart}
	if l == nil {
		return res, ErrNoLoop
	}
	header := l.Header()
	if header == nil {
		return res, ErrNoHeader
	}
	if env.Dom == nil {
		return res, fmt.Errorf("loop %s: %w", header.Label(), ErrNoDominance)
	}
	if env.Loops == nil {
		return res, fmt.Errorf("loop %s: %w", header.Label(), ErrNoLoopInfo)
	}
	pre := l.Preheader()
	if pre == nil {
		return res, fmt.Errorf("loop %s: %w", header.Label(), ErrNoPreheader)
	}
	spec := env.Spec
	if spec == nil {
		spec = DefaultSpeculator
	}
	uses := env.Uses
	if uses == nil && header.Func != nil {
		uses = ir.ComputeUses(header.Func)
	}

	span, ctx := trace.Begin(ctx, trace.ScopeLoop, "loop:"+header.Label())
	res.Stats.Loops = 1

	res.State = StateTraversing
	for _, b := range Preorder(l, env.Dom) {
		if env.Loops.LoopOf(b) != l {
			continue
		}
		res.Stats.Blocks++
		// b.Instrs shrinks as instructions leave it.
		for _, in := range slices.Clone(b.Instrs) {
			res.Stats.Candidates++
			if !IsInvariant(in, l) {
				continue
			}
			res.Stats.Invariant++
			ok, why := CheckHoist(in, l, env.Dom, spec, uses)
			if !ok {
				res.Stats.Unsafe++
				trace.Point(ctx, trace.ScopeInstr, "keep:"+in.Ref(), why.String(), map[string]string{"block": b.Label()})
				continue
			}
			res.State = StateHoisting
			Hoist(in, pre)
			res.Hoisted = append(res.Hoisted, in)
			res.Stats.Hoisted++
			trace.Point(ctx, trace.ScopeInstr, "hoist:"+in.Ref(), why.String(),
				map[string]string{"from": b.Label(), "to": pre.Label()})
			if env.Verify {
				if err := checkAvailable(in, l, pre, env.Dom); err != nil {
					res.Changed = len(res.Hoisted) > 0
					trace.Error(ctx, trace.ScopeLoop, "loop:"+header.Label(), err)
					span.End("failed")
					return res, fmt.Errorf("loop %s: %w", header.Label(), err)
				}
			}
		}
	}

	res.State = StateDone
	res.Changed = len(res.Hoisted) > 0
	span.WithExtra("hoisted", strconv.Itoa(res.Stats.Hoisted)).
		WithExtra("blocks", strconv.Itoa(res.Stats.Blocks))
	span.End(res.State.String())
	return res, nil
}
