package interpreter

import (
	"fmt"

	"stackvm/pkg/bytecode"
	"stackvm/pkg/stack"
)

// Frame is one activation record. Its memory and operand stack are private:
// the only values crossing a frame boundary are invoke arguments and the
// value delivered by ireturn/freturn.
type Frame struct {
	PC         int    // address of the next instruction to dispatch
	Caller     *Frame // nil for the entry frame
	ReturnAddr int    // address in the caller to resume at; unused for the entry frame

	memory   []bytecode.Value
	operands *stack.Stack[bytecode.Value]
}

func newFrame(pc int, memory []bytecode.Value, caller *Frame, returnAddr int) *Frame {
	return &Frame{
		PC:         pc,
		Caller:     caller,
		ReturnAddr: returnAddr,
		memory:     memory,
		operands:   stack.NewStack[bytecode.Value](),
	}
}

// Slot returns memory cell k.
func (f *Frame) Slot(k int) (bytecode.Value, bool) {
	if k < 0 || k >= len(f.memory) {
		return bytecode.Value{}, false
	}

	return f.memory[k], true
}

// MemorySize returns the number of memory cells.
func (f *Frame) MemorySize() int {
	return len(f.memory)
}

// Operands returns a copy of the operand stack, bottom first.
func (f *Frame) Operands() []bytecode.Value {
	return append([]bytecode.Value(nil), f.operands.Array()...)
}

func (f *Frame) push(v bytecode.Value) {
	f.operands.Push(v)
}

func (f *Frame) pop() (bytecode.Value, error) {
	v, ok := f.operands.Pop()
	if !ok {
		return bytecode.Value{}, ErrStackUnderflow
	}

	return v, nil
}

func (f *Frame) popInt() (int64, error) {
	v, err := f.pop()
	if err != nil {
		return 0, err
	}

	return v.AsInt()
}

func (f *Frame) popFloat() (float64, error) {
	v, err := f.pop()
	if err != nil {
		return 0, err
	}

	return v.AsFloat()
}

// popIntPair pops top then bottom and returns them in operand order.
func (f *Frame) popIntPair() (bottom, top int64, err error) {
	if top, err = f.popInt(); err != nil {
		return 0, 0, err
	}
	if bottom, err = f.popInt(); err != nil {
		return 0, 0, err
	}

	return bottom, top, nil
}

func (f *Frame) popFloatPair() (bottom, top float64, err error) {
	if top, err = f.popFloat(); err != nil {
		return 0, 0, err
	}
	if bottom, err = f.popFloat(); err != nil {
		return 0, 0, err
	}

	return bottom, top, nil
}

// load reads memory cell k, requiring it to hold a value of the given kind.
func (f *Frame) load(k int, kind bytecode.ValueKind) (bytecode.Value, error) {
	v, ok := f.Slot(k)
	if !ok {
		return bytecode.Value{}, fmt.Errorf("%w: slot %d of %d", ErrInvalidAddress, k, len(f.memory))
	}
	if !v.IsValid() {
		return bytecode.Value{}, fmt.Errorf("%w: slot %d", ErrUnsetSlot, k)
	}
	if kind != bytecode.KindInvalid && v.Kind != kind {
		return bytecode.Value{}, fmt.Errorf("%w: slot %d holds %s, expected %s", ErrTypeMismatch, k, v.Kind, kind)
	}

	return v, nil
}

// store pops the operand stack into memory cell k.
func (f *Frame) store(k int, kind bytecode.ValueKind) error {
	if k < 0 || k >= len(f.memory) {
		return fmt.Errorf("%w: slot %d of %d", ErrInvalidAddress, k, len(f.memory))
	}

	v, err := f.pop()
	if err != nil {
		return err
	}
	if v.Kind != kind {
		return fmt.Errorf("%w: storing %s into %s slot %d", ErrTypeMismatch, v.Kind, kind, k)
	}

	f.memory[k] = v
	return nil
}
