package ir

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ParseError reports a malformed text IR input.
type ParseError struct {
	Pos scanner.Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Parse reads functions in text form:
//
//	func f(a: int, n: int) {
//	entry:
//	  goto loop
//	loop:
//	  i = phi int [entry: 0], [loop: i2]
//	  i2 = add int i, 1
//	  c = lt bool i2, n
//	  if c, loop, exit
//	exit:
//	  ret i2
//	}
//
// The first block of each function is its entry. Values may be referenced
// before their definition.
func Parse(filename, src string) (*Module, error) {
	toks, err := tokenize(filename, src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	m := &Module{}
	for {
		p.skipNewlines()
		if p.peek().kind == scanner.EOF {
			break
		}
		f, err := p.parseFunc()
		if err != nil {
			return nil, err
		}
		if m.Func(f.Name) != nil {
			return nil, &ParseError{Pos: p.prevPos, Msg: fmt.Sprintf("function %s redefined", f.Name)}
		}
		m.Funcs = append(m.Funcs, f)
	}
	return m, nil
}

// ParseFunc parses a source holding exactly one function.
func ParseFunc(filename, src string) (*Func, error) {
	m, err := Parse(filename, src)
	if err != nil {
		return nil, err
	}
	if len(m.Funcs) != 1 {
		return nil, fmt.Errorf("%s: expected one function, found %d", filename, len(m.Funcs))
	}
	return m.Funcs[0], nil
}

type token struct {
	kind rune
	text string
	pos  scanner.Position
}

func tokenize(filename, src string) ([]token, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(src))
	s.Filename = filename
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanComments | scanner.SkipComments
	s.Whitespace = 1<<'\t' | 1<<'\r' | 1<<' '
	s.IsIdentRune = func(ch rune, i int) bool {
		return ch == '_' || unicode.IsLetter(ch) || i > 0 && (unicode.IsDigit(ch) || ch == '.')
	}
	var scanErr error
	s.Error = func(s *scanner.Scanner, msg string) {
		if scanErr == nil {
			scanErr = &ParseError{Pos: s.Position, Msg: msg}
		}
	}
	var toks []token
	for {
		tok := s.Scan()
		if scanErr != nil {
			return nil, scanErr
		}
		text := s.TokenText()
		if tok == scanner.Ident {
			text = norm.NFC.String(text)
		}
		if tok == '#' {
			// line comment
			for ch := s.Peek(); ch != '\n' && ch != scanner.EOF; ch = s.Peek() {
				s.Next()
			}
			continue
		}
		toks = append(toks, token{kind: tok, text: text, pos: s.Position})
		if tok == scanner.EOF {
			return toks, nil
		}
	}
}

type pendingRef struct {
	slot *Operand
	name string
	pos  scanner.Position
}

type parser struct {
	toks    []token
	i       int
	prevPos scanner.Position

	f       *Func
	values  map[string]*Instr
	blocks  map[string]*Block
	defined map[*Block]bool
	refs    []pendingRef
	blkPos  map[*Block]scanner.Position
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) peekAt(n int) token {
	if p.i+n < len(p.toks) {
		return p.toks[p.i+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != scanner.EOF {
		p.i++
	}
	p.prevPos = t.pos
	return t
}

func (p *parser) errorf(pos scanner.Position, format string, args ...any) error {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(kind rune) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, p.errorf(t.pos, "expected %s, found %q", scanner.TokenString(kind), t.text)
	}
	return t, nil
}

func (p *parser) expectIdent(what string) (string, scanner.Position, error) {
	t := p.next()
	if t.kind != scanner.Ident {
		return "", t.pos, p.errorf(t.pos, "expected %s, found %q", what, t.text)
	}
	return t.text, t.pos, nil
}

func (p *parser) accept(kind rune) bool {
	if p.peek().kind == kind {
		p.next()
		return true
	}
	return false
}

func (p *parser) skipNewlines() {
	for p.peek().kind == '\n' {
		p.next()
	}
}

func (p *parser) endLine() error {
	t := p.peek()
	if t.kind == '\n' {
		p.next()
		return nil
	}
	if t.kind == '}' || t.kind == scanner.EOF {
		return nil
	}
	return p.errorf(t.pos, "unexpected %q at end of line", t.text)
}

func (p *parser) parseFunc() (*Func, error) {
	kw, pos, err := p.expectIdent("func")
	if err != nil {
		return nil, err
	}
	if kw != "func" {
		return nil, p.errorf(pos, "expected func, found %q", kw)
	}
	name, _, err := p.expectIdent("function name")
	if err != nil {
		return nil, err
	}
	p.f = NewFunc(name)
	p.values = make(map[string]*Instr)
	p.blocks = make(map[string]*Block)
	p.defined = make(map[*Block]bool)
	p.blkPos = make(map[*Block]scanner.Position)
	p.refs = p.refs[:0]

	if _, err := p.expect('('); err != nil {
		return nil, err
	}
	for p.peek().kind != ')' {
		pname, ppos, err := p.expectIdent("parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(':'); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.define(p.f.AddParam(pname, ty), ppos); err != nil {
			return nil, err
		}
		if !p.accept(',') {
			break
		}
	}
	if _, err := p.expect(')'); err != nil {
		return nil, err
	}
	if _, err := p.expect('{'); err != nil {
		return nil, err
	}

	var cur *Block
	for {
		p.skipNewlines()
		t := p.peek()
		if t.kind == '}' {
			p.next()
			break
		}
		if t.kind == scanner.EOF {
			return nil, p.errorf(t.pos, "unexpected end of input in function %s", name)
		}
		if t.kind == scanner.Ident && p.peekAt(1).kind == ':' {
			p.next()
			p.next()
			if cur != nil && !cur.Terminated() {
				return nil, p.errorf(t.pos, "block %s is not terminated", cur.Label())
			}
			b := p.blockRef(t.text, t.pos)
			if p.defined[b] {
				return nil, p.errorf(t.pos, "block %s redefined", t.text)
			}
			p.defined[b] = true
			p.adopt(b)
			cur = b
			if err := p.endLine(); err != nil {
				return nil, err
			}
			continue
		}
		if cur == nil {
			return nil, p.errorf(t.pos, "instruction outside of a block")
		}
		if cur.Terminated() {
			return nil, p.errorf(t.pos, "instruction after terminator in block %s", cur.Label())
		}
		if err := p.parseStmt(cur); err != nil {
			return nil, err
		}
		if err := p.endLine(); err != nil {
			return nil, err
		}
	}
	if cur == nil {
		return nil, p.errorf(p.prevPos, "function %s has no blocks", name)
	}
	if !cur.Terminated() {
		return nil, p.errorf(p.prevPos, "block %s is not terminated", cur.Label())
	}
	return p.f, p.resolve()
}

func (p *parser) resolve() error {
	var errs []error
	for _, b := range p.blocks {
		if !p.defined[b] {
			errs = append(errs, p.errorf(p.blkPos[b], "undefined block %s", b.Name))
		}
	}
	for _, r := range p.refs {
		def, ok := p.values[r.name]
		if !ok {
			errs = append(errs, p.errorf(r.pos, "undefined value %s", r.name))
			continue
		}
		r.slot.Def = def
	}
	return errors.Join(errs...)
}

// adopt gives a block referenced ahead of its label an ID in f.
func (p *parser) adopt(b *Block) {
	f := p.f
	b.ID = f.nextBlock
	b.Func = f
	f.nextBlock++
	f.Blocks = append(f.Blocks, b)
	if f.Entry == nil {
		f.Entry = b
	}
}

func (p *parser) blockRef(name string, pos scanner.Position) *Block {
	if b, ok := p.blocks[name]; ok {
		return b
	}
	b := &Block{ID: NoBlockID, Name: name}
	p.blocks[name] = b
	p.blkPos[b] = pos
	return b
}

func (p *parser) define(in *Instr, pos scanner.Position) error {
	name := in.Ref()
	if _, dup := p.values[name]; dup {
		return p.errorf(pos, "value %s redefined", name)
	}
	p.values[name] = in
	return nil
}

func (p *parser) parseType() (Type, error) {
	name, pos, err := p.expectIdent("type")
	if err != nil {
		return TypeVoid, err
	}
	ty, ok := ParseType(name)
	if !ok {
		return TypeVoid, p.errorf(pos, "unknown type %q", name)
	}
	return ty, nil
}

func (p *parser) parseStmt(b *Block) error {
	t := p.peek()
	if t.kind != scanner.Ident {
		return p.errorf(t.pos, "expected instruction, found %q", t.text)
	}
	switch t.text {
	case "goto":
		p.next()
		target, pos, err := p.expectIdent("block label")
		if err != nil {
			return err
		}
		b.Goto(p.blockRef(target, pos))
		return nil
	case "if":
		p.next()
		cond, err := p.parseOperand()
		if err != nil {
			return err
		}
		var labels [2]*Block
		for i := range labels {
			if _, err := p.expect(','); err != nil {
				return err
			}
			name, pos, err := p.expectIdent("block label")
			if err != nil {
				return err
			}
			labels[i] = p.blockRef(name, pos)
		}
		b.If(Operand{}, labels[0], labels[1])
		b.Term.If.Cond = cond.op
		p.track(&b.Term.If.Cond, cond)
		return nil
	case "ret":
		p.next()
		if k := p.peek().kind; k == '\n' || k == '}' || k == scanner.EOF {
			b.Return()
			return nil
		}
		v, err := p.parseOperand()
		if err != nil {
			return err
		}
		b.ReturnValue(v.op)
		p.track(&b.Term.Return.Value, v)
		return nil
	case "unreachable":
		p.next()
		b.Unreachable()
		return nil
	case "store":
		p.next()
		in := b.Emit(OpStore, TypeVoid, "")
		return p.parseArgs(in)
	case "call":
		p.next()
		return p.parseCall(b, "", t.pos)
	}

	// name = op ...
	name := t.text
	pos := t.pos
	p.next()
	if _, err := p.expect('='); err != nil {
		return err
	}
	opName, opPos, err := p.expectIdent("opcode")
	if err != nil {
		return err
	}
	if opName == "call" {
		return p.parseCall(b, name, pos)
	}
	op, ok := LookupOp(opName)
	if !ok || op == OpStore {
		return p.errorf(opPos, "unknown opcode %q", opName)
	}
	ty, err := p.parseType()
	if err != nil {
		return err
	}
	if ty == TypeVoid {
		return p.errorf(pos, "value %s cannot have type void", name)
	}
	in := b.Emit(op, ty, name)
	if err := p.define(in, pos); err != nil {
		return err
	}
	switch op {
	case OpConst:
		c, err := p.parseOperand()
		if err != nil {
			return err
		}
		if c.name != "" {
			return p.errorf(pos, "const %s needs a literal", name)
		}
		in.Value = c.op.Const
		if ty == TypeFloat && in.Value.Type == TypeInt {
			in.Value.Float = float64(in.Value.Int)
		}
		in.Value.Type = ty
		return nil
	case OpPhi:
		return p.parsePhi(in)
	}
	return p.parseArgs(in)
}

func (p *parser) parseCall(b *Block, name string, pos scanner.Position) error {
	ty, err := p.parseType()
	if err != nil {
		return err
	}
	if _, err := p.expect('@'); err != nil {
		return err
	}
	callee, _, err := p.expectIdent("callee")
	if err != nil {
		return err
	}
	if name != "" && ty == TypeVoid {
		return p.errorf(pos, "void call cannot define %s", name)
	}
	in := b.Call(ty, name, callee)
	if name != "" {
		if err := p.define(in, pos); err != nil {
			return err
		}
	}
	if _, err := p.expect('('); err != nil {
		return err
	}
	var ops []parsedOperand
	for p.peek().kind != ')' {
		o, err := p.parseOperand()
		if err != nil {
			return err
		}
		ops = append(ops, o)
		if !p.accept(',') {
			break
		}
	}
	if _, err := p.expect(')'); err != nil {
		return err
	}
	p.setArgs(in, ops)
	return nil
}

func (p *parser) parseArgs(in *Instr) error {
	var ops []parsedOperand
	for {
		k := p.peek().kind
		if k == '\n' || k == '}' || k == scanner.EOF {
			break
		}
		o, err := p.parseOperand()
		if err != nil {
			return err
		}
		ops = append(ops, o)
		if !p.accept(',') {
			break
		}
	}
	p.setArgs(in, ops)
	return nil
}

func (p *parser) parsePhi(in *Instr) error {
	var ops []parsedOperand
	for {
		if _, err := p.expect('['); err != nil {
			return err
		}
		label, pos, err := p.expectIdent("block label")
		if err != nil {
			return err
		}
		if _, err := p.expect(':'); err != nil {
			return err
		}
		o, err := p.parseOperand()
		if err != nil {
			return err
		}
		if _, err := p.expect(']'); err != nil {
			return err
		}
		ops = append(ops, o)
		in.PhiFrom = append(in.PhiFrom, p.blockRef(label, pos))
		if !p.accept(',') {
			break
		}
	}
	p.setArgs(in, ops)
	return nil
}

func (p *parser) setArgs(in *Instr, ops []parsedOperand) {
	in.Args = make([]Operand, len(ops))
	for i, o := range ops {
		in.Args[i] = o.op
		p.track(&in.Args[i], o)
	}
}

func (p *parser) track(slot *Operand, o parsedOperand) {
	if o.name != "" {
		p.refs = append(p.refs, pendingRef{slot: slot, name: o.name, pos: o.pos})
	}
}

type parsedOperand struct {
	op   Operand
	name string
	pos  scanner.Position
}

func (p *parser) parseOperand() (parsedOperand, error) {
	t := p.next()
	neg := false
	if t.kind == '-' {
		neg = true
		t = p.next()
	}
	switch t.kind {
	case scanner.Ident:
		if neg {
			return parsedOperand{}, p.errorf(t.pos, "cannot negate %s", t.text)
		}
		switch t.text {
		case "true", "false":
			return parsedOperand{op: Imm(BoolConst(t.text == "true")), pos: t.pos}, nil
		case "null":
			return parsedOperand{op: Imm(NullConst()), pos: t.pos}, nil
		}
		return parsedOperand{name: t.text, pos: t.pos}, nil
	case scanner.Int:
		text := t.text
		if neg {
			text = "-" + text
		}
		v, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return parsedOperand{}, p.errorf(t.pos, "bad integer %s: %v", text, err)
		}
		return parsedOperand{op: Int(v), pos: t.pos}, nil
	case scanner.Float:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return parsedOperand{}, p.errorf(t.pos, "bad float %s: %v", t.text, err)
		}
		if neg {
			v = -v
		}
		return parsedOperand{op: Imm(FloatConst(v)), pos: t.pos}, nil
	}
	return parsedOperand{}, p.errorf(t.pos, "expected operand, found %q", t.text)
}
