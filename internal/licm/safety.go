package licm

import "licm/internal/ir"

// Reason explains why an invariant instruction was or was not hoisted.
type Reason uint8

const (
	ReasonSpeculatable Reason = iota
	ReasonDominatesExits
	ReasonExitNotDominated
	ReasonRedefined
	ReasonUseNotDominated
)

func (r Reason) String() string {
	switch r {
	case ReasonSpeculatable:
		return "speculatable"
	case ReasonDominatesExits:
		return "dominates exits"
	case ReasonExitNotDominated:
		return "exit not dominated"
	case ReasonRedefined:
		return "value redefined in loop"
	case ReasonUseNotDominated:
		return "use not dominated"
	default:
		return "unknown"
	}
}

// IsSafeToHoist reports whether moving the invariant instruction in to
// the preheader of l preserves behaviour. See CheckHoist.
func IsSafeToHoist(in *ir.Instr, l Loop, dt Dominance, spec Speculator, uses ir.UseMap) bool {
	ok, _ := CheckHoist(in, l, dt, spec, uses)
	return ok
}

// CheckHoist decides hoist safety and reports the deciding reason.
//
// A speculatable instruction is always safe. Anything else must satisfy
// all of:
//   - its block dominates every exit of l, so every path leaving the loop
//     already executed it (a loop without exits passes vacuously);
//   - it is the only definition of its value within l;
//   - every use is dominated by its block, so the value is never
//     observed on a path that skipped the computation.
//
// uses may be nil, in which case the last condition is not checked.
func CheckHoist(in *ir.Instr, l Loop, dt Dominance, spec Speculator, uses ir.UseMap) (bool, Reason) {
	if spec != nil && spec.IsSafeToExecuteUnconditionally(in) {
		return true, ReasonSpeculatable
	}
	if in.Block == nil {
		return false, ReasonExitNotDominated
	}
	for _, exit := range l.ExitBlocks() {
		if !dt.Dominates(in.Block, exit) {
			return false, ReasonExitNotDominated
		}
	}
	if redefinedInLoop(in, l) {
		return false, ReasonRedefined
	}
	for _, u := range uses[in] {
		site := u.Site()
		if site == nil || !dt.Dominates(in.Block, site) {
			return false, ReasonUseNotDominated
		}
	}
	return true, ReasonDominatesExits
}

// redefinedInLoop reports whether another instruction of l carries the
// value ID of in. Validated IR never does; hand-assembled IR might.
func redefinedInLoop(in *ir.Instr, l Loop) bool {
	f := in.Block.Func
	if f == nil {
		return false
	}
	for _, b := range f.Blocks {
		if !l.Contains(b) {
			continue
		}
		for _, other := range b.Instrs {
			if other != in && other.ID == in.ID {
				return true
			}
		}
	}
	return false
}
