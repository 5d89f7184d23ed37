package licm

import (
	"errors"
	"fmt"

	"licm/internal/ir"
)

// Precondition violations. The loop must be in normal form before the
// engine runs; these are never recovered from internally.
var (
	ErrNoLoop       = errors.New("licm: nil loop")
	ErrNoHeader     = errors.New("licm: loop has no header")
	ErrNoPreheader  = errors.New("licm: loop has no preheader")
	ErrNoDominance  = errors.New("licm: missing dominator information")
	ErrNoLoopInfo   = errors.New("licm: missing loop structure information")
	ErrUseBeforeDef = errors.New("licm: hoisted instruction uses a value not available in the preheader")
)

func fmtUseBeforeDef(in, def *ir.Instr) error {
	return fmt.Errorf("%w: %s reads %s", ErrUseBeforeDef, in.Ref(), def.Ref())
}
