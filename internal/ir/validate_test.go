package ir_test

import (
	"strings"
	"testing"

	"licm/internal/ir"
)

func buildDiamond() (*ir.Func, *ir.Instr) {
	f := ir.NewFunc("diamond")
	c := f.AddParam("c", ir.TypeBool)
	entry := f.NewBlock("entry")
	then := f.NewBlock("then")
	els := f.NewBlock("else")
	join := f.NewBlock("join")

	entry.If(ir.Val(c), then, els)
	a := then.Emit(ir.OpAdd, ir.TypeInt, "a", ir.Int(1), ir.Int(2))
	then.Goto(join)
	els.Goto(join)
	phi := join.Phi(ir.TypeInt, "p")
	phi.AddIncoming(then, ir.Val(a))
	phi.AddIncoming(els, ir.Int(0))
	join.ReturnValue(ir.Val(phi))
	return f, phi
}

func TestValidateBuiltFunc(t *testing.T) {
	f, _ := buildDiamond()
	if err := ir.ValidateFunc(f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *ir.Func, phi *ir.Instr)
		want   string
	}{
		{
			name:   "unterminated",
			mutate: func(f *ir.Func, _ *ir.Instr) { f.Block("else").Term = ir.Terminator{} },
			want:   "else: unterminated block",
		},
		{
			name: "foreign target",
			mutate: func(f *ir.Func, _ *ir.Instr) {
				other := ir.NewFunc("other").NewBlock("elsewhere")
				f.Block("else").Goto(other)
			},
			want: "branch target elsewhere does not exist",
		},
		{
			name: "phi edge count",
			mutate: func(_ *ir.Func, phi *ir.Instr) {
				phi.Args = phi.Args[:1]
				phi.PhiFrom = phi.PhiFrom[:1]
			},
			want: "has 1 incoming edges, block has 2 predecessors",
		},
		{
			name: "phi after non-phi",
			mutate: func(f *ir.Func, phi *ir.Instr) {
				join := f.Block("join")
				x := f.NewInstr(ir.OpAdd, ir.TypeInt, "x", ir.Int(1), ir.Int(1))
				x.Block = join
				join.Instrs = []*ir.Instr{x, phi}
			},
			want: "phi p after a non-phi instruction",
		},
		{
			name: "stale owner",
			mutate: func(f *ir.Func, _ *ir.Instr) {
				f.Value("a").Block = f.Block("join")
			},
			want: "a has owner join",
		},
		{
			name: "arity",
			mutate: func(f *ir.Func, _ *ir.Instr) {
				a := f.Value("a")
				a.Args = a.Args[:1]
			},
			want: "add expects 2 operands, got 1",
		},
		{
			name: "dangling operand",
			mutate: func(f *ir.Func, _ *ir.Instr) {
				ghost := ir.NewFunc("ghost").AddParam("g", ir.TypeInt)
				f.Value("a").Args[0] = ir.Val(ghost)
			},
			want: "operand g is not defined in the function",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, phi := buildDiamond()
			tt.mutate(f, phi)
			err := ir.ValidateFunc(f)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestValidateModuleNamesFunction(t *testing.T) {
	f, _ := buildDiamond()
	f.Block("then").Term = ir.Terminator{}
	err := ir.Validate(&ir.Module{Funcs: []*ir.Func{f}})
	if err == nil || !strings.Contains(err.Error(), "function diamond:") {
		t.Errorf("expected error naming the function, got %v", err)
	}
}
