package ui

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"licm/internal/dom"
	"licm/internal/ir"
	"licm/internal/licm"
	"licm/internal/loops"
)

const nestedSrc = `func nested(a: int, b: int, n: int) {
entry:
  goto outer
outer:
  i = phi int [entry: 0], [latch: i2]
  goto inner
inner:
  j = phi int [outer: 0], [inner: j2]
  t = mul int a, b
  j2 = add int j, t
  c = lt bool j2, n
  if c, inner, latch
latch:
  i2 = add int i, 1
  d = lt bool i2, n
  if d, outer, exit
exit:
  ret
}
`

func TestTableAlignsByCellWidth(t *testing.T) {
	got := Table([]string{"name", "n"}, [][]string{{"日本", "1"}, {"ab", "22"}}, false)
	want := "name  n\n日本  1\nab    22\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderSummary(t *testing.T) {
	results := []licm.FuncResult{
		{Func: &ir.Func{Name: "f1"}, Normalized: true, Stats: licm.Stats{Loops: 2, Blocks: 4, Candidates: 5, Invariant: 3, Unsafe: 1, Hoisted: 2}},
		{Func: &ir.Func{Name: "f2"}, Stats: licm.Stats{Loops: 1, Blocks: 1, Candidates: 1, Invariant: 1, Hoisted: 1}},
	}
	want := strings.Join([]string{
		"func   loops  blocks  candidates  invariant  unsafe  hoisted",
		"f1*    2      4       5           3          1       2",
		"f2     1      1       1           1          0       1",
		"total  3      5       6           4          1       3",
		"",
	}, "\n")
	if diff := cmp.Diff(want, RenderSummary(results, false)); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderLoops(t *testing.T) {
	f, err := ir.ParseFunc("nested.ir", nestedSrc)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	dt, err := dom.Build(f)
	if err != nil {
		t.Fatalf("dom failed: %v", err)
	}
	nest, err := loops.Build(f, dt)
	if err != nil {
		t.Fatalf("loops failed: %v", err)
	}
	want := strings.Join([]string{
		"header   depth  blocks  preheader  exits",
		"outer    1      3       entry      exit",
		"  inner  2      1       outer      latch",
		"",
	}, "\n")
	if diff := cmp.Diff(want, RenderLoops(nest, false)); diff != "" {
		t.Errorf("loop table mismatch (-want +got):\n%s", diff)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a_long_function_name", 10, "a_long_..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestProgressModelTracksEvents(t *testing.T) {
	events := make(chan licm.Event)
	m := NewProgressModel("licm", []string{"f", "g"}, events).(*progressModel)

	m.applyEvent(licm.Event{Func: "f", Stage: licm.StageAnalyze, Status: licm.StatusWorking})
	m.applyEvent(licm.Event{Func: "g", Stage: licm.StageHoist, Status: licm.StatusError, Err: errors.New("boom")})
	m.applyEvent(licm.Event{Func: "unknown", Status: licm.StatusDone})

	var statuses []string
	for _, it := range m.items {
		statuses = append(statuses, it.status)
	}
	if diff := cmp.Diff([]string{"analyzing", "error"}, statuses); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
	if got := m.fraction(); math.Abs(got-0.65) > 1e-9 {
		t.Errorf("fraction = %v, want 0.65", got)
	}

	m.applyEvent(licm.Event{Func: "f", Stage: licm.StageHoist, Status: licm.StatusDone, Hoisted: 3})
	if m.fraction() != 1 {
		t.Errorf("fraction = %v, want 1", m.fraction())
	}
	if !strings.Contains(m.View(), "(3 hoisted)") {
		t.Errorf("view lacks hoisted count:\n%s", m.View())
	}
}

func TestProgressModelFinishesWhenChannelCloses(t *testing.T) {
	events := make(chan licm.Event)
	close(events)
	m := NewProgressModel("licm", []string{"f"}, events).(*progressModel)
	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("expected doneMsg, got %T", msg)
	}
	m.Update(msg)
	if !m.done {
		t.Error("model not marked done")
	}
	if !strings.HasPrefix(stripANSI(m.View()), "done: licm") {
		t.Errorf("unexpected header:\n%s", m.View())
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	esc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			esc = true
		case esc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			esc = false
		case !esc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
