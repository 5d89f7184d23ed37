package ir

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the payload layout changes
const codecSchemaVersion uint16 = 1

// ErrSchemaMismatch is returned when decoding a payload written by an
// incompatible encoder.
var ErrSchemaMismatch = errors.New("ir: unsupported binary schema")

type modulePayload struct {
	Schema uint16
	Funcs  []funcPayload
}

type funcPayload struct {
	Name   string
	Params []valuePayload
	Blocks []blockPayload
	Entry  int32
}

type blockPayload struct {
	ID     int32
	Name   string
	Instrs []valuePayload
	Term   termPayload
}

// Operands and phi edges refer to values by ID and to blocks by their
// index in funcPayload.Blocks.
type valuePayload struct {
	ID      int32
	Name    string
	Op      uint8
	Type    uint8
	Args    []operandPayload
	PhiFrom []int32
	Value   constPayload
	Callee  string
}

type operandPayload struct {
	Def   int32
	Const constPayload
}

type constPayload struct {
	Type  uint8
	Int   int64
	Float float64
	Bool  bool
}

type termPayload struct {
	Kind     uint8
	Targets  []int32
	HasValue bool
	Value    operandPayload
}

// Encode writes m in the binary msgpack form.
func Encode(w io.Writer, m *Module) error {
	payload := modulePayload{Schema: codecSchemaVersion}
	for _, f := range m.Funcs {
		fp, err := encodeFunc(f)
		if err != nil {
			return fmt.Errorf("function %s: %w", f.Name, err)
		}
		payload.Funcs = append(payload.Funcs, fp)
	}
	return msgpack.NewEncoder(w).Encode(&payload)
}

// Marshal is Encode into a byte slice.
func Marshal(m *Module) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeFunc(f *Func) (funcPayload, error) {
	index := make(map[*Block]int32, len(f.Blocks))
	for i, b := range f.Blocks {
		n, err := safecast.Conv[int32](i)
		if err != nil {
			return funcPayload{}, err
		}
		index[b] = n
	}
	blockIdx := func(b *Block) int32 {
		if n, ok := index[b]; ok {
			return n
		}
		return -1
	}

	fp := funcPayload{Name: f.Name, Entry: blockIdx(f.Entry)}
	for _, p := range f.Params {
		fp.Params = append(fp.Params, encodeValue(p, blockIdx))
	}
	for _, b := range f.Blocks {
		bp := blockPayload{ID: int32(b.ID), Name: b.Name}
		for _, in := range b.Instrs {
			bp.Instrs = append(bp.Instrs, encodeValue(in, blockIdx))
		}
		bp.Term = termPayload{Kind: uint8(b.Term.Kind)}
		for _, t := range b.Term.Targets() {
			bp.Term.Targets = append(bp.Term.Targets, blockIdx(t))
		}
		switch b.Term.Kind {
		case TermIf:
			bp.Term.HasValue = true
			bp.Term.Value = encodeOperand(b.Term.If.Cond)
		case TermReturn:
			bp.Term.HasValue = b.Term.Return.HasValue
			bp.Term.Value = encodeOperand(b.Term.Return.Value)
		}
		fp.Blocks = append(fp.Blocks, bp)
	}
	return fp, nil
}

func encodeValue(in *Instr, blockIdx func(*Block) int32) valuePayload {
	vp := valuePayload{
		ID:     int32(in.ID),
		Name:   in.Name,
		Op:     uint8(in.Op),
		Type:   uint8(in.Type),
		Value:  encodeConst(in.Value),
		Callee: in.Callee,
	}
	for _, a := range in.Args {
		vp.Args = append(vp.Args, encodeOperand(a))
	}
	for _, b := range in.PhiFrom {
		vp.PhiFrom = append(vp.PhiFrom, blockIdx(b))
	}
	return vp
}

func encodeOperand(o Operand) operandPayload {
	if o.Def != nil {
		return operandPayload{Def: int32(o.Def.ID)}
	}
	return operandPayload{Def: int32(NoValueID), Const: encodeConst(o.Const)}
}

func encodeConst(c Const) constPayload {
	return constPayload{Type: uint8(c.Type), Int: c.Int, Float: c.Float, Bool: c.Bool}
}

// Decode reads a module written by Encode.
func Decode(r io.Reader) (*Module, error) {
	var payload modulePayload
	if err := msgpack.NewDecoder(r).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Schema != codecSchemaVersion {
		return nil, fmt.Errorf("%w: version %d", ErrSchemaMismatch, payload.Schema)
	}
	m := &Module{}
	for i := range payload.Funcs {
		f, err := decodeFunc(&payload.Funcs[i])
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", payload.Funcs[i].Name, err)
		}
		m.Funcs = append(m.Funcs, f)
	}
	return m, nil
}

// Unmarshal is Decode from a byte slice.
func Unmarshal(data []byte) (*Module, error) {
	return Decode(bytes.NewReader(data))
}

func decodeFunc(fp *funcPayload) (*Func, error) {
	f := NewFunc(fp.Name)
	for _, bp := range fp.Blocks {
		f.Blocks = append(f.Blocks, &Block{ID: BlockID(bp.ID), Name: bp.Name, Func: f})
	}
	block := func(i int32) (*Block, error) {
		if i < 0 || int(i) >= len(f.Blocks) {
			return nil, fmt.Errorf("block index %d out of range", i)
		}
		return f.Blocks[i], nil
	}
	entry, err := block(fp.Entry)
	if err != nil {
		return nil, fmt.Errorf("entry: %w", err)
	}
	f.Entry = entry

	values := make(map[ValueID]*Instr)
	newValue := func(vp *valuePayload) (*Instr, error) {
		id := ValueID(vp.ID)
		if _, dup := values[id]; dup {
			return nil, fmt.Errorf("value ID %d defined twice", id)
		}
		in := &Instr{
			ID:     id,
			Name:   vp.Name,
			Op:     Op(vp.Op),
			Type:   Type(vp.Type),
			Value:  decodeConst(vp.Value),
			Callee: vp.Callee,
		}
		values[id] = in
		return in, nil
	}
	for i := range fp.Params {
		p, err := newValue(&fp.Params[i])
		if err != nil {
			return nil, err
		}
		f.Params = append(f.Params, p)
	}
	for bi := range fp.Blocks {
		for ii := range fp.Blocks[bi].Instrs {
			in, err := newValue(&fp.Blocks[bi].Instrs[ii])
			if err != nil {
				return nil, err
			}
			f.Blocks[bi].Append(in)
		}
	}

	operand := func(op operandPayload) (Operand, error) {
		if op.Def == int32(NoValueID) {
			return Imm(decodeConst(op.Const)), nil
		}
		def, ok := values[ValueID(op.Def)]
		if !ok {
			return Operand{}, fmt.Errorf("operand refers to unknown value %d", op.Def)
		}
		return Val(def), nil
	}
	link := func(in *Instr, vp *valuePayload) error {
		for _, a := range vp.Args {
			o, err := operand(a)
			if err != nil {
				return err
			}
			in.Args = append(in.Args, o)
		}
		for _, idx := range vp.PhiFrom {
			b, err := block(idx)
			if err != nil {
				return err
			}
			in.PhiFrom = append(in.PhiFrom, b)
		}
		return nil
	}
	for bi := range fp.Blocks {
		bp := &fp.Blocks[bi]
		b := f.Blocks[bi]
		for ii := range bp.Instrs {
			if err := link(b.Instrs[ii], &bp.Instrs[ii]); err != nil {
				return nil, fmt.Errorf("%s: %w", b.Label(), err)
			}
		}
		if err := decodeTerm(b, &bp.Term, block, operand); err != nil {
			return nil, fmt.Errorf("%s: %w", b.Label(), err)
		}
	}
	if err := f.resync(); err != nil {
		return nil, err
	}
	return f, nil
}

func decodeTerm(b *Block, tp *termPayload, block func(int32) (*Block, error), operand func(operandPayload) (Operand, error)) error {
	targets := make([]*Block, len(tp.Targets))
	for i, idx := range tp.Targets {
		t, err := block(idx)
		if err != nil {
			return err
		}
		targets[i] = t
	}
	switch TermKind(tp.Kind) {
	case TermGoto:
		if len(targets) != 1 {
			return fmt.Errorf("goto with %d targets", len(targets))
		}
		b.Goto(targets[0])
	case TermIf:
		if len(targets) != 2 {
			return fmt.Errorf("if with %d targets", len(targets))
		}
		cond, err := operand(tp.Value)
		if err != nil {
			return err
		}
		b.If(cond, targets[0], targets[1])
	case TermReturn:
		if !tp.HasValue {
			b.Return()
			return nil
		}
		v, err := operand(tp.Value)
		if err != nil {
			return err
		}
		b.ReturnValue(v)
	case TermUnreachable:
		b.Unreachable()
	default:
		return fmt.Errorf("unknown terminator kind %d", tp.Kind)
	}
	return nil
}

func decodeConst(c constPayload) Const {
	return Const{Type: Type(c.Type), Int: c.Int, Float: c.Float, Bool: c.Bool}
}
