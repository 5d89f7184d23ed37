package licm

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"licm/internal/dom"
	"licm/internal/ir"
	"licm/internal/loops"
	"licm/internal/trace"
)

// Options configures whole-function runs.
type Options struct {
	// Normalize inserts missing preheaders instead of failing.
	Normalize bool
	// Verify validates the function up front and re-checks operand
	// availability after every hoist.
	Verify bool
	// Jobs bounds the number of functions processed concurrently;
	// zero means GOMAXPROCS.
	Jobs int
	Spec Speculator
	// Progress receives per-function events; nil disables reporting.
	Progress ProgressSink
}

// FuncResult is the outcome for one function.
type FuncResult struct {
	Func       *ir.Func
	Changed    bool
	Normalized bool
	Stats      Stats
	// Hoisted lists each moved instruction once, in final layout order.
	// Stats.Hoisted counts moves, so a value hoisted through two loop
	// levels counts twice there.
	Hoisted []*ir.Instr
}

// RunFunc runs the engine over every loop of f, innermost loops first so
// that values hoisted out of an inner loop can move further out when
// they are invariant in the enclosing loop too.
func RunFunc(ctx context.Context, f *ir.Func, opts Options) (FuncResult, error) {
	res := FuncResult{Func: f}
	start := time.Now()
	span, ctx := trace.Begin(ctx, trace.ScopeFunc, "func:"+f.Name)
	stage := StageAnalyze
	defer func() {
		span.WithExtra("hoisted", strconv.Itoa(res.Stats.Hoisted))
		span.End(fmt.Sprintf("loops=%d", res.Stats.Loops))
	}()

	err := runFunc(ctx, f, opts, &res, &stage)
	res.Hoisted = byFinalPosition(f, res.Hoisted)
	evt := Event{Func: f.Name, Stage: stage, Status: StatusDone, Hoisted: res.Stats.Hoisted, Elapsed: time.Since(start)}
	if err != nil {
		evt.Status = StatusError
		evt.Err = err
	}
	emit(opts.Progress, evt)
	return res, err
}

func runFunc(ctx context.Context, f *ir.Func, opts Options, res *FuncResult, stage *Stage) error {
	if opts.Verify {
		if err := ir.ValidateFunc(f); err != nil {
			return fmt.Errorf("function %s: invalid input: %w", f.Name, err)
		}
	}
	if opts.Normalize {
		*stage = StageNormalize
		emit(opts.Progress, Event{Func: f.Name, Stage: *stage, Status: StatusWorking})
		changed, err := loops.EnsurePreheaders(f)
		if err != nil {
			return fmt.Errorf("function %s: %w", f.Name, err)
		}
		res.Normalized = changed
		res.Changed = changed
	}

	*stage = StageAnalyze
	emit(opts.Progress, Event{Func: f.Name, Stage: *stage, Status: StatusWorking})
	dt, err := dom.Build(f)
	if err != nil {
		return fmt.Errorf("function %s: %w", f.Name, err)
	}
	if opts.Verify {
		if err := dt.CheckUses(f); err != nil {
			return fmt.Errorf("function %s: invalid input: %w", f.Name, err)
		}
	}
	nest, err := loops.Build(f, dt)
	if err != nil {
		return fmt.Errorf("function %s: %w", f.Name, err)
	}
	env := Env{
		Dom:    dt,
		Loops:  NestInfo(nest),
		Spec:   opts.Spec,
		Uses:   ir.ComputeUses(f),
		Verify: opts.Verify,
	}

	*stage = StageHoist
	emit(opts.Progress, Event{Func: f.Name, Stage: *stage, Status: StatusWorking})
	for _, l := range nest.InnermostFirst() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lr, err := Run(ctx, l, env)
		res.Stats.Add(lr.Stats)
		res.Hoisted = append(res.Hoisted, lr.Hoisted...)
		res.Changed = res.Changed || lr.Changed
		if err != nil {
			trace.Error(ctx, trace.ScopeFunc, "func:"+f.Name, err)
			return fmt.Errorf("function %s: %w", f.Name, err)
		}
	}
	return nil
}

// byFinalPosition drops repeated entries and orders the rest by block
// layout, then by position within the block.
func byFinalPosition(f *ir.Func, ins []*ir.Instr) []*ir.Instr {
	seen := make(map[*ir.Instr]bool, len(ins))
	out := make([]*ir.Instr, 0, len(ins))
	for _, in := range ins {
		if !seen[in] {
			seen[in] = true
			out = append(out, in)
		}
	}
	slices.SortStableFunc(out, func(a, b *ir.Instr) int {
		if c := cmp.Compare(f.BlockIndex(a.Block), f.BlockIndex(b.Block)); c != 0 {
			return c
		}
		return cmp.Compare(a.Block.Index(a), b.Block.Index(b))
	})
	return out
}

// RunModule runs RunFunc over every function of m. Functions share no
// IR, so they are processed concurrently; results keep module order.
func RunModule(ctx context.Context, m *ir.Module, opts Options) ([]FuncResult, error) {
	span, ctx := trace.Begin(ctx, trace.ScopeDriver, "module")
	defer span.End("")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]FuncResult, len(m.Funcs))
	if len(m.Funcs) == 0 {
		return results, nil
	}
	for _, f := range m.Funcs {
		emit(opts.Progress, Event{Func: f.Name, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(m.Funcs)))
	for i, f := range m.Funcs {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// results[i] is written by this goroutine only
			r, err := RunFunc(gctx, f, opts)
			results[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Total sums the stats of all results.
func Total(results []FuncResult) Stats {
	var s Stats
	for _, r := range results {
		s.Add(r.Stats)
	}
	return s
}
