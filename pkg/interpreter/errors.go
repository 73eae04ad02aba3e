package interpreter

import (
	"errors"
	"fmt"

	"stackvm/pkg/bytecode"
)

var (
	ErrStackUnderflow     = errors.New("operand stack underflow")
	ErrTypeMismatch       = bytecode.ErrTypeMismatch
	ErrDivisionByZero     = errors.New("integer division by zero")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrUnsetSlot          = errors.New("memory slot read before written")
	ErrCallStackExhausted = errors.New("call stack exhausted")
	ErrUnknownOpcode      = errors.New("unknown opcode")
	ErrPCOutOfRange       = errors.New("program counter ran past the end of the program")
	ErrMaxStepsExceeded   = errors.New("maximum steps exceeded")
)

// RuntimeError reports a fatal failure while dispatching an instruction.
// Err is always one of the sentinel errors above, possibly wrapped with detail.
type RuntimeError struct {
	PC          int    // address of the failing instruction
	Instruction string // rendered failing instruction
	Depth       int    // call depth at the time of failure, entry frame = 1
	Err         error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("pc %d (%s) at depth %d: %v", e.PC, e.Instruction, e.Depth, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
