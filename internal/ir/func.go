package ir

import (
	"strconv"

	"fortio.org/safecast"
)

type Func struct {
	Name   string
	Params []*Instr
	Blocks []*Block
	Entry  *Block

	nextValue ValueID
	nextBlock BlockID
}

// Module is a set of independent functions.
type Module struct {
	Funcs []*Func
}

// Func returns the function called name, or nil.
func (m *Module) Func(name string) *Func {
	if m == nil {
		return nil
	}
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func NewFunc(name string) *Func {
	return &Func{Name: name}
}

// NewBlock appends a fresh empty block. The first block created becomes the entry.
func (f *Func) NewBlock(name string) *Block {
	b := &Block{ID: f.nextBlock, Name: name, Func: f}
	f.nextBlock++
	f.Blocks = append(f.Blocks, b)
	if f.Entry == nil {
		f.Entry = b
	}
	return b
}

// InsertBlockBefore creates a block and places it ahead of at in layout order.
func (f *Func) InsertBlockBefore(at *Block, name string) *Block {
	b := f.NewBlock(name)
	f.Blocks = f.Blocks[:len(f.Blocks)-1]
	idx := f.BlockIndex(at)
	if idx < 0 {
		f.Blocks = append(f.Blocks, b)
		return b
	}
	f.Blocks = append(f.Blocks, nil)
	copy(f.Blocks[idx+1:], f.Blocks[idx:])
	f.Blocks[idx] = b
	return b
}

// BlockIndex returns the layout position of b, or -1.
func (f *Func) BlockIndex(b *Block) int {
	for i, x := range f.Blocks {
		if x == b {
			return i
		}
	}
	return -1
}

// Block returns the block labelled name, or nil.
func (f *Func) Block(name string) *Block {
	for _, b := range f.Blocks {
		if b.Label() == name {
			return b
		}
	}
	return nil
}

// NewInstr allocates a detached instruction with a fresh value ID.
func (f *Func) NewInstr(op Op, ty Type, name string, args ...Operand) *Instr {
	in := &Instr{ID: f.nextValue, Name: name, Op: op, Type: ty, Args: args}
	f.nextValue++
	return in
}

// AddParam declares a function parameter. Parameters have no owning block.
func (f *Func) AddParam(name string, ty Type) *Instr {
	p := f.NewInstr(OpParam, ty, name)
	f.Params = append(f.Params, p)
	return p
}

// NumValues returns an upper bound on value IDs in f.
func (f *Func) NumValues() int { return int(f.nextValue) }

// NumBlocks returns an upper bound on block IDs in f.
func (f *Func) NumBlocks() int { return int(f.nextBlock) }

// Value returns the parameter or instruction named name, or nil.
func (f *Func) Value(name string) *Instr {
	for _, p := range f.Params {
		if p.Ref() == name {
			return p
		}
	}
	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			if in.Ref() == name {
				return in
			}
		}
	}
	return nil
}

// Preds returns the predecessor lists of every block, in layout order.
func (f *Func) Preds() map[*Block][]*Block {
	preds := make(map[*Block][]*Block, len(f.Blocks))
	for _, b := range f.Blocks {
		for _, s := range b.Succs() {
			preds[s] = append(preds[s], b)
		}
	}
	return preds
}

// resync restores the ID counters after a function was assembled by hand.
func (f *Func) resync() error {
	maxValue := NoValueID
	note := func(in *Instr) {
		if in.ID > maxValue {
			maxValue = in.ID
		}
	}
	for _, p := range f.Params {
		note(p)
	}
	maxBlock := NoBlockID
	for _, b := range f.Blocks {
		b.Func = f
		if b.ID > maxBlock {
			maxBlock = b.ID
		}
		for _, in := range b.Instrs {
			note(in)
		}
	}
	nv, err := safecast.Conv[int32](int64(maxValue) + 1)
	if err != nil {
		return err
	}
	nb, err := safecast.Conv[int32](int64(maxBlock) + 1)
	if err != nil {
		return err
	}
	f.nextValue = ValueID(nv)
	f.nextBlock = BlockID(nb)
	return nil
}

func itoa(i int) string { return strconv.Itoa(i) }
