package ir_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"licm/internal/ir"
)

const countLoop = `func count(a: int, n: int) {
entry:
  goto loop
loop:
  i = phi int [entry: 0], [loop: i2]
  k = mul int a, 4
  i2 = add int i, k
  c = lt bool i2, n
  if c, loop, exit
exit:
  ret i2
}
`

func mustParse(t *testing.T, src string) *ir.Module {
	t.Helper()
	m, err := ir.Parse("test.ir", src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if err := ir.Validate(m); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	return m
}

func dump(t *testing.T, m *ir.Module) string {
	t.Helper()
	var sb strings.Builder
	if err := ir.DumpModule(&sb, m); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	return sb.String()
}

func TestParseDumpRoundTrip(t *testing.T) {
	m := mustParse(t, countLoop)
	got := dump(t, m)
	if diff := cmp.Diff(countLoop, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStructure(t *testing.T) {
	f := mustParse(t, countLoop).Func("count")
	if f == nil {
		t.Fatal("function count not found")
	}
	if len(f.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(f.Params))
	}
	if f.Entry != f.Block("entry") {
		t.Errorf("entry = %s, want entry", f.Entry.Label())
	}
	loop := f.Block("loop")
	if len(loop.Instrs) != 4 {
		t.Fatalf("loop has %d instrs, want 4", len(loop.Instrs))
	}
	phi := f.Value("i")
	if phi.Op != ir.OpPhi || len(phi.PhiFrom) != 2 {
		t.Fatalf("unexpected phi shape: %s", phi)
	}
	if v, ok := phi.Incoming(loop); !ok || v.Def != f.Value("i2") {
		t.Errorf("phi incoming from loop = %v, want i2", v)
	}
	k := f.Value("k")
	if k.Args[0].Def != f.Params[0] || !k.Args[1].IsConst() || k.Args[1].Const.Int != 4 {
		t.Errorf("unexpected operands for k: %s", k)
	}
	if k.Block != loop {
		t.Errorf("k owned by %s, want loop", k.Block.Label())
	}
}

func TestParseLiteralsAndCalls(t *testing.T) {
	src := `func lits(p: ptr) {
entry:
  f = const float 2
  g = const float -1.5
  b = const bool true
  z = ptradd ptr p, -8
  x = load int z
  store z, x
  call void @sink(x, null)
  r = call int @pure()
  ret r
}
`
	f := mustParse(t, src).Funcs[0]
	if got := f.Value("f").Value; got.Type != ir.TypeFloat || got.Float != 2 {
		t.Errorf("const float 2 parsed as %+v", got)
	}
	if got := f.Value("g").Value.Float; got != -1.5 {
		t.Errorf("const float -1.5 parsed as %v", got)
	}
	if got := f.Value("z").Args[1].Const.Int; got != -8 {
		t.Errorf("negative immediate parsed as %d", got)
	}
	call := f.Block("entry").Instrs[6]
	if call.Op != ir.OpCall || call.Callee != "sink" || call.HasResult() {
		t.Errorf("unexpected void call: %s", call)
	}
	if call.Args[1].Const.Type != ir.TypePtr {
		t.Errorf("null operand has type %s", call.Args[1].Const.Type)
	}
	if r := f.Value("r"); r.Callee != "pure" || len(r.Args) != 0 {
		t.Errorf("unexpected call: %s", r)
	}
}

func TestParseComments(t *testing.T) {
	src := `# leading comment
func f() {
entry:   # the only block
  ret 1
}
`
	f := mustParse(t, src).Funcs[0]
	if f.Entry.Term.Kind != ir.TermReturn || f.Entry.Term.Return.Value.Const.Int != 1 {
		t.Errorf("unexpected terminator %+v", f.Entry.Term)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"undefined value", "func f() {\nentry:\n  ret x\n}\n", "undefined value x"},
		{"undefined block", "func f() {\nentry:\n  goto nowhere\n}\n", "undefined block nowhere"},
		{"redefined value", "func f(a: int) {\nentry:\n  a = add int 1, 2\n  ret a\n}\n", "value a redefined"},
		{"redefined block", "func f() {\nentry:\n  goto entry\nentry:\n  ret\n}\n", "block entry redefined"},
		{"unterminated", "func f() {\nentry:\n  x = add int 1, 2\n}\n", "not terminated"},
		{"after terminator", "func f() {\nentry:\n  ret\n  x = add int 1, 2\n}\n", "instruction after terminator"},
		{"unknown op", "func f() {\nentry:\n  x = frob int 1\n  ret\n}\n", `unknown opcode "frob"`},
		{"unknown type", "func f() {\nentry:\n  x = add i32 1, 2\n  ret\n}\n", `unknown type "i32"`},
		{"void value", "func f() {\nentry:\n  x = add void 1, 2\n  ret\n}\n", "cannot have type void"},
		{"redefined func", "func f() {\nentry:\n  ret\n}\nfunc f() {\nentry:\n  ret\n}\n", "function f redefined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ir.Parse("bad.ir", tt.src)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := ir.Parse("pos.ir", "func f() {\nentry:\n  x = add int 1, 2\n  ret y\n}\n")
	var pe *ir.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ir.ParseError, got %T: %v", err, err)
	}
	if pe.Pos.Filename != "pos.ir" || pe.Pos.Line != 4 {
		t.Errorf("error at %s, want pos.ir:4", pe.Pos)
	}
}

func TestParseFuncRequiresOne(t *testing.T) {
	src := "func a() {\nentry:\n  ret\n}\nfunc b() {\nentry:\n  ret\n}\n"
	if _, err := ir.ParseFunc("two.ir", src); err == nil {
		t.Error("expected error for two functions")
	}
}

func TestParseForwardBlockLayout(t *testing.T) {
	src := `func f(c: bool) {
start:
  if c, left, right
right:
  goto join
left:
  goto join
join:
  ret
}
`
	f := mustParse(t, src).Funcs[0]
	var labels []string
	for _, b := range f.Blocks {
		labels = append(labels, b.Label())
	}
	want := []string{"start", "right", "left", "join"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("block layout mismatch (-want +got):\n%s", diff)
	}
	for i, b := range f.Blocks {
		if int(b.ID) != i {
			t.Errorf("block %s has ID %d, want %d", b.Label(), b.ID, i)
		}
	}
}
