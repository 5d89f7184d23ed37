package ir

import "fmt"

type BlockID int32
type ValueID int32

const (
	NoBlockID BlockID = -1
	NoValueID ValueID = -1
)

// Type is the result type of a value.
type Type uint8

const (
	TypeVoid Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypePtr
)

func (t Type) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypePtr:
		return "ptr"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// ParseType converts a type keyword to a Type.
func ParseType(s string) (Type, bool) {
	switch s {
	case "void":
		return TypeVoid, true
	case "bool":
		return TypeBool, true
	case "int":
		return TypeInt, true
	case "float":
		return TypeFloat, true
	case "ptr":
		return TypePtr, true
	}
	return TypeVoid, false
}
