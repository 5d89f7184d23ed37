package ir

import (
	"fmt"
	"io"
	"strings"
)

// DumpModule writes every function of m in text form.
func DumpModule(w io.Writer, m *Module) error {
	if w == nil || m == nil {
		return nil
	}
	for i, f := range m.Funcs {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := Dump(w, f); err != nil {
			return err
		}
	}
	return nil
}

// Dump writes f in the text form accepted by Parse.
func Dump(w io.Writer, f *Func) error {
	if w == nil || f == nil {
		return nil
	}
	var sb strings.Builder
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Ref() + ": " + p.Type.String()
	}
	fmt.Fprintf(&sb, "func %s(%s) {\n", f.Name, strings.Join(params, ", "))
	for _, b := range orderedForDump(f) {
		fmt.Fprintf(&sb, "%s:\n", b.Label())
		for _, in := range b.Instrs {
			fmt.Fprintf(&sb, "  %s\n", formatInstr(in))
		}
		fmt.Fprintf(&sb, "  %s\n", formatTerm(&b.Term))
	}
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// orderedForDump puts the entry block first so the text re-parses with
// the same entry.
func orderedForDump(f *Func) []*Block {
	if f.Entry == nil || len(f.Blocks) == 0 || f.Blocks[0] == f.Entry {
		return f.Blocks
	}
	out := make([]*Block, 0, len(f.Blocks))
	out = append(out, f.Entry)
	for _, b := range f.Blocks {
		if b != f.Entry {
			out = append(out, b)
		}
	}
	return out
}

func formatInstr(in *Instr) string {
	if in == nil {
		return "<nil>"
	}
	var sb strings.Builder
	if in.HasResult() {
		sb.WriteString(in.Ref())
		sb.WriteString(" = ")
	}
	sb.WriteString(in.Op.String())
	switch in.Op {
	case OpParam:
		sb.WriteString(" " + in.Type.String())
	case OpConst:
		sb.WriteString(" " + in.Type.String() + " " + in.Value.String())
	case OpPhi:
		sb.WriteString(" " + in.Type.String())
		for i, a := range in.Args {
			if i > 0 {
				sb.WriteString(",")
			}
			from := "?"
			if i < len(in.PhiFrom) {
				from = in.PhiFrom[i].Label()
			}
			fmt.Fprintf(&sb, " [%s: %s]", from, a)
		}
	case OpCall:
		fmt.Fprintf(&sb, " %s @%s(%s)", in.Type, in.Callee, joinOperands(in.Args))
	case OpStore:
		sb.WriteString(" " + joinOperands(in.Args))
	default:
		sb.WriteString(" " + in.Type.String())
		if len(in.Args) > 0 {
			sb.WriteString(" " + joinOperands(in.Args))
		}
	}
	return sb.String()
}

func formatTerm(t *Terminator) string {
	switch t.Kind {
	case TermGoto:
		return "goto " + t.Goto.Target.Label()
	case TermIf:
		return fmt.Sprintf("if %s, %s, %s", t.If.Cond, t.If.Then.Label(), t.If.Else.Label())
	case TermReturn:
		if t.Return.HasValue {
			return "ret " + t.Return.Value.String()
		}
		return "ret"
	case TermUnreachable:
		return "unreachable"
	}
	return "<unterminated>"
}

func joinOperands(args []Operand) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}
