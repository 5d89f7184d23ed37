package ir

import (
	"math"
	"strconv"
)

// Const is a compile-time constant operand.
type Const struct {
	Type  Type
	Int   int64
	Float float64
	Bool  bool
}

// IntConst returns an integer constant.
func IntConst(v int64) Const { return Const{Type: TypeInt, Int: v} }

// FloatConst returns a float constant.
func FloatConst(v float64) Const { return Const{Type: TypeFloat, Float: v} }

// BoolConst returns a boolean constant.
func BoolConst(v bool) Const { return Const{Type: TypeBool, Bool: v} }

// NullConst returns the null pointer constant.
func NullConst() Const { return Const{Type: TypePtr} }

// IsZero reports whether c is the zero value of its type.
func (c Const) IsZero() bool {
	switch c.Type {
	case TypeInt, TypePtr:
		return c.Int == 0
	case TypeFloat:
		return c.Float == 0
	case TypeBool:
		return !c.Bool
	}
	return true
}

func (c Const) String() string {
	switch c.Type {
	case TypeInt:
		return strconv.FormatInt(c.Int, 10)
	case TypeFloat:
		s := strconv.FormatFloat(c.Float, 'g', -1, 64)
		if !math.IsInf(c.Float, 0) && !math.IsNaN(c.Float) && !containsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case TypeBool:
		return strconv.FormatBool(c.Bool)
	case TypePtr:
		if c.Int == 0 {
			return "null"
		}
		return "ptr(" + strconv.FormatInt(c.Int, 10) + ")"
	}
	return "void"
}

func containsAny(s, chars string) bool {
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(chars); j++ {
			if s[i] == chars[j] {
				return true
			}
		}
	}
	return false
}

// Operand is an instruction argument: either a constant or a reference
// to the instruction that defines the value.
type Operand struct {
	Def   *Instr
	Const Const
}

// Val returns an operand referring to the value defined by in.
func Val(in *Instr) Operand { return Operand{Def: in} }

// Imm returns a constant operand.
func Imm(c Const) Operand { return Operand{Const: c} }

// Int returns an integer constant operand.
func Int(v int64) Operand { return Imm(IntConst(v)) }

// IsConst reports whether the operand is a compile-time constant.
func (o Operand) IsConst() bool { return o.Def == nil }

// Type returns the operand type.
func (o Operand) Type() Type {
	if o.Def != nil {
		return o.Def.Type
	}
	return o.Const.Type
}

func (o Operand) String() string {
	if o.Def != nil {
		return o.Def.Ref()
	}
	return o.Const.String()
}

// Instr is a single SSA instruction. An instruction is owned by at most
// one block at a time; Block is nil for parameters and detached values.
type Instr struct {
	ID   ValueID
	Name string
	Op   Op
	Type Type

	Args []Operand
	// PhiFrom holds the incoming predecessor for each phi argument.
	PhiFrom []*Block
	// Value is the constant produced by OpConst.
	Value Const
	// Callee names the target of OpCall.
	Callee string

	Block *Block
}

// HasResult reports whether the instruction defines a value.
func (in *Instr) HasResult() bool {
	return in.Type != TypeVoid
}

// Ref returns the name used to refer to the value in text form.
func (in *Instr) Ref() string {
	if in == nil {
		return "<nil>"
	}
	if in.Name != "" {
		return in.Name
	}
	return "v" + strconv.Itoa(int(in.ID))
}

// AddIncoming appends a phi argument flowing in from pred.
func (in *Instr) AddIncoming(pred *Block, v Operand) {
	in.Args = append(in.Args, v)
	in.PhiFrom = append(in.PhiFrom, pred)
}

// Incoming returns the phi argument flowing in from pred.
func (in *Instr) Incoming(pred *Block) (Operand, bool) {
	for i, b := range in.PhiFrom {
		if b == pred {
			return in.Args[i], true
		}
	}
	return Operand{}, false
}

func (in *Instr) String() string {
	return formatInstr(in)
}
