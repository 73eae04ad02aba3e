package bytecode

import (
	"fmt"
)

// Instruction is one opcode and its immediate data. Which fields are
// meaningful depends on the opcode's Operand shape:
//
//	OperandConst   Const
//	OperandSlot    Arg (memory address)
//	OperandTarget  Arg (instruction address)
//	OperandInvoke  Arg (entry address), Params, Locals
type Instruction struct {
	Op Opcode `cbor:"1,keyasint"`

	Const  Value `cbor:"2,keyasint,omitempty"`
	Arg    int   `cbor:"3,keyasint,omitempty"`
	Params int   `cbor:"4,keyasint,omitempty"`
	Locals int   `cbor:"5,keyasint,omitempty"`
}

// Iconst pushes an integer constant.
func Iconst(k int64) Instruction {
	return Instruction{Op: OpIconst, Const: Int(k)}
}

// Fconst pushes a floating-point constant.
func Fconst(x float64) Instruction {
	return Instruction{Op: OpFconst, Const: Float(x)}
}

func Iload(slot int) Instruction  { return Instruction{Op: OpIload, Arg: slot} }
func Fload(slot int) Instruction  { return Instruction{Op: OpFload, Arg: slot} }
func Istore(slot int) Instruction { return Instruction{Op: OpIstore, Arg: slot} }
func Fstore(slot int) Instruction { return Instruction{Op: OpFstore, Arg: slot} }
func Print(slot int) Instruction  { return Instruction{Op: OpPrint, Arg: slot} }

// Goto jumps unconditionally to target.
func Goto(target int) Instruction {
	return Instruction{Op: OpGoto, Arg: target}
}

// Cmp builds a compare-and-jump instruction. op must be one of the
// icmp/fcmp opcodes.
func Cmp(op Opcode, target int) Instruction {
	return Instruction{Op: op, Arg: target}
}

// Invoke calls the function starting at entry with nParams arguments and
// nLocals extra memory slots.
func Invoke(entry, nParams, nLocals int) Instruction {
	return Instruction{Op: OpInvoke, Arg: entry, Params: nParams, Locals: nLocals}
}

// Simple builds an instruction with no immediate data (arithmetic,
// conversion, returns).
func Simple(op Opcode) Instruction {
	return Instruction{Op: op}
}

// Slot returns the memory address, if the opcode has one.
func (i Instruction) Slot() (int, bool) {
	if def, err := Lookup(i.Op); err == nil && def.Operand == OperandSlot {
		return i.Arg, true
	}

	return 0, false
}

// String renders the instruction with numeric addresses.
func (i Instruction) String() string {
	return i.Render(nil)
}

// Render renders the instruction mnemonic, substituting label names for
// jump and invoke targets when labels knows them.
func (i Instruction) Render(labels LabelTable) string {
	def, err := Lookup(i.Op)
	if err != nil {
		return i.Op.String()
	}

	switch def.Operand {
	case OperandConst:
		return fmt.Sprintf("%s %s", def.Name, i.Const)
	case OperandSlot:
		return fmt.Sprintf("%s %d", def.Name, i.Arg)
	case OperandTarget:
		return fmt.Sprintf("%s %s", def.Name, labels.Name(i.Arg))
	case OperandInvoke:
		return fmt.Sprintf("%s %s, %d, %d", def.Name, labels.Name(i.Arg), i.Params, i.Locals)
	default:
		return def.Name
	}
}
