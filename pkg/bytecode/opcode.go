package bytecode

import "fmt"

type Opcode byte

// List of opcodes
const (
	OpIconst Opcode = iota
	OpFconst
	OpIload
	OpFload
	OpIstore
	OpFstore
	OpIadd
	OpIsub
	OpImul
	OpIdiv
	OpFadd
	OpFsub
	OpFmul
	OpFdiv
	OpIntToFloat
	OpIcmpeq
	OpIcmpne
	OpIcmplt
	OpIcmple
	OpIcmpgt
	OpIcmpge
	OpFcmpeq
	OpFcmpne
	OpFcmplt
	OpFcmple
	OpFcmpgt
	OpFcmpge
	OpGoto
	OpInvoke
	OpReturn
	OpIreturn
	OpFreturn
	OpPrint

	opCount
)

// Operand describes the immediate data an opcode carries.
type Operand int

const (
	OperandNone   Operand = iota
	OperandConst          // one Value
	OperandSlot           // one memory address
	OperandTarget         // one jump target
	OperandInvoke         // entry, nParams, nLocals
)

// Definition documents an opcode's mnemonic and the shape of its operands.
type Definition struct {
	Name    string
	Operand Operand
}

var definitions = [opCount]Definition{
	OpIconst: {"iconst", OperandConst},
	OpFconst: {"fconst", OperandConst},

	OpIload:  {"iload", OperandSlot},
	OpFload:  {"fload", OperandSlot},
	OpIstore: {"istore", OperandSlot},
	OpFstore: {"fstore", OperandSlot},
	OpPrint:  {"print", OperandSlot},

	OpIadd: {"iadd", OperandNone},
	OpIsub: {"isub", OperandNone},
	OpImul: {"imul", OperandNone},
	OpIdiv: {"idiv", OperandNone},
	OpFadd: {"fadd", OperandNone},
	OpFsub: {"fsub", OperandNone},
	OpFmul: {"fmul", OperandNone},
	OpFdiv: {"fdiv", OperandNone},

	OpIntToFloat: {"intToFloat", OperandNone},

	OpIcmpeq: {"icmpeq", OperandTarget},
	OpIcmpne: {"icmpne", OperandTarget},
	OpIcmplt: {"icmplt", OperandTarget},
	OpIcmple: {"icmple", OperandTarget},
	OpIcmpgt: {"icmpgt", OperandTarget},
	OpIcmpge: {"icmpge", OperandTarget},
	OpFcmpeq: {"fcmpeq", OperandTarget},
	OpFcmpne: {"fcmpne", OperandTarget},
	OpFcmplt: {"fcmplt", OperandTarget},
	OpFcmple: {"fcmple", OperandTarget},
	OpFcmpgt: {"fcmpgt", OperandTarget},
	OpFcmpge: {"fcmpge", OperandTarget},
	OpGoto:   {"goto", OperandTarget},

	OpInvoke: {"invoke", OperandInvoke},

	OpReturn:  {"return", OperandNone},
	OpIreturn: {"ireturn", OperandNone},
	OpFreturn: {"freturn", OperandNone},
}

var byName = func() map[string]Opcode {
	m := make(map[string]Opcode, opCount)
	for op, def := range definitions {
		m[def.Name] = Opcode(op)
	}
	return m
}()

// Lookup returns the definition of op.
func Lookup(op Opcode) (*Definition, error) {
	if op >= opCount {
		return nil, fmt.Errorf("opcode %d undefined", op)
	}

	return &definitions[op], nil
}

// ParseOpcode maps a mnemonic to its opcode.
func ParseOpcode(name string) (Opcode, bool) {
	op, ok := byName[name]
	return op, ok
}

// Opcodes returns every defined opcode in numeric order.
func Opcodes() []Opcode {
	ops := make([]Opcode, 0, opCount)
	for op := Opcode(0); op < opCount; op++ {
		ops = append(ops, op)
	}
	return ops
}

// String returns the mnemonic.
func (op Opcode) String() string {
	if op >= opCount {
		return fmt.Sprintf("UNKNOWN(%d)", int(op))
	}

	return definitions[op].Name
}
