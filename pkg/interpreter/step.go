package interpreter

import (
	"fmt"

	"github.com/charmbracelet/log"

	"stackvm/pkg/bytecode"
)

// dispatch applies one instruction to frame f. It returns halted once the
// entry frame has executed a return-family instruction.
func (i *Interpreter) dispatch(f *Frame, in bytecode.Instruction) (bool, error) {
	switch in.Op {
	case bytecode.OpIconst, bytecode.OpFconst:
		f.push(in.Const)
		f.PC++

	case bytecode.OpIload:
		return false, i.loadOp(f, in.Arg, bytecode.KindInt)

	case bytecode.OpFload:
		return false, i.loadOp(f, in.Arg, bytecode.KindFloat)

	case bytecode.OpIstore:
		if err := f.store(in.Arg, bytecode.KindInt); err != nil {
			return false, err
		}
		f.PC++

	case bytecode.OpFstore:
		if err := f.store(in.Arg, bytecode.KindFloat); err != nil {
			return false, err
		}
		f.PC++

	case bytecode.OpIadd, bytecode.OpIsub, bytecode.OpImul, bytecode.OpIdiv:
		bottom, top, err := f.popIntPair()
		if err != nil {
			return false, err
		}
		res, err := evalInt(in.Op, bottom, top)
		if err != nil {
			return false, err
		}
		f.push(bytecode.Int(res))
		f.PC++

	case bytecode.OpFadd, bytecode.OpFsub, bytecode.OpFmul, bytecode.OpFdiv:
		bottom, top, err := f.popFloatPair()
		if err != nil {
			return false, err
		}
		f.push(bytecode.Float(evalFloat(in.Op, bottom, top)))
		f.PC++

	case bytecode.OpIntToFloat:
		n, err := f.popInt()
		if err != nil {
			return false, err
		}
		f.push(bytecode.Float(float64(n)))
		f.PC++

	case bytecode.OpPrint:
		v, err := f.load(in.Arg, bytecode.KindInvalid)
		if err != nil {
			return false, err
		}
		if _, err := fmt.Fprintf(i.out, "Print: %s\n", v); err != nil {
			return false, fmt.Errorf("print: %w", err)
		}
		f.PC++

	case bytecode.OpIcmpeq, bytecode.OpIcmpne, bytecode.OpIcmplt,
		bytecode.OpIcmple, bytecode.OpIcmpgt, bytecode.OpIcmpge:
		bottom, top, err := f.popIntPair()
		if err != nil {
			return false, err
		}
		return false, i.branch(f, in.Arg, compare(in.Op, bottom, top))

	case bytecode.OpFcmpeq, bytecode.OpFcmpne, bytecode.OpFcmplt,
		bytecode.OpFcmple, bytecode.OpFcmpgt, bytecode.OpFcmpge:
		bottom, top, err := f.popFloatPair()
		if err != nil {
			return false, err
		}
		return false, i.branch(f, in.Arg, compare(in.Op, bottom, top))

	case bytecode.OpGoto:
		return false, i.branch(f, in.Arg, true)

	case bytecode.OpInvoke:
		return false, i.invoke(f, in)

	case bytecode.OpReturn, bytecode.OpIreturn, bytecode.OpFreturn:
		return i.ret(f, in.Op)

	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownOpcode, in.Op)
	}

	return false, nil
}

func (i *Interpreter) loadOp(f *Frame, slot int, kind bytecode.ValueKind) error {
	v, err := f.load(slot, kind)
	if err != nil {
		return err
	}

	f.push(v)
	f.PC++
	return nil
}

// branch jumps to target when taken, otherwise falls through.
func (i *Interpreter) branch(f *Frame, target int, taken bool) error {
	if !taken {
		f.PC++
		return nil
	}

	if target < 0 || target >= i.prog.Len() {
		return fmt.Errorf("%w: jump target %d", ErrInvalidAddress, target)
	}

	f.PC = target
	return nil
}

// invoke moves the top nParams operands of the caller into a fresh memory
// array and makes the callee the executing frame. The caller's PC stays on
// the invoke until the callee returns.
func (i *Interpreter) invoke(caller *Frame, in bytecode.Instruction) error {
	entry, nParams, nLocals := in.Arg, in.Params, in.Locals
	if entry < 0 || entry >= i.prog.Len() {
		return fmt.Errorf("%w: invoke entry %d", ErrInvalidAddress, entry)
	}
	if nParams < 0 || nLocals < 0 {
		return fmt.Errorf("%w: invoke frame size %d+%d", ErrInvalidAddress, nParams, nLocals)
	}
	if i.maxDepth > 0 && i.Depth() >= i.maxDepth {
		return fmt.Errorf("%w: depth %d", ErrCallStackExhausted, i.Depth())
	}

	memory := make([]bytecode.Value, nParams+nLocals)
	for p := nParams - 1; p >= 0; p-- {
		v, err := caller.pop()
		if err != nil {
			return fmt.Errorf("invoke argument %d: %w", p, err)
		}
		memory[p] = v
	}

	i.pushFrame(newFrame(entry, memory, caller, caller.PC+1))

	if i.trace {
		log.Debug("Frame pushed", "entry", i.prog.Labels.Name(entry), "params", nParams, "locals", nLocals, "depth", i.Depth())
	}
	return nil
}

// ret terminates f. ireturn and freturn hand the popped value to the caller's
// operand stack; in the entry frame that value becomes the program result.
func (i *Interpreter) ret(f *Frame, op bytecode.Opcode) (bool, error) {
	var (
		v       bytecode.Value
		deliver bool
	)

	switch op {
	case bytecode.OpIreturn:
		n, err := f.popInt()
		if err != nil {
			return false, err
		}
		v, deliver = bytecode.Int(n), true
	case bytecode.OpFreturn:
		x, err := f.popFloat()
		if err != nil {
			return false, err
		}
		v, deliver = bytecode.Float(x), true
	}

	caller := i.popFrame()
	if caller == nil {
		i.result, i.hasResult = v, deliver
		if i.trace {
			log.Debug("Entry frame returned", "result", v, "steps", i.steps+1)
		}
		return true, nil
	}

	if deliver {
		caller.push(v)
	}
	caller.PC = f.ReturnAddr

	if i.trace {
		log.Debug("Frame popped", "resume", caller.PC, "depth", i.Depth())
	}
	return false, nil
}

// traceStep logs the instruction about to be dispatched.
func (i *Interpreter) traceStep(f *Frame, in bytecode.Instruction) {
	log.Debug("exec",
		"pc", f.PC,
		"depth", i.Depth(),
		"instr", in.Render(i.prog.Labels),
		"stack", f.Operands())
}

// evalInt applies an integer arithmetic opcode to bottom and top, in that order.
func evalInt(op bytecode.Opcode, bottom, top int64) (int64, error) {
	switch op {
	case bytecode.OpIadd:
		return bottom + top, nil
	case bytecode.OpIsub:
		return bottom - top, nil
	case bytecode.OpImul:
		return bottom * top, nil
	case bytecode.OpIdiv:
		if top == 0 {
			return 0, ErrDivisionByZero
		}
		// Go integer division truncates toward zero
		return bottom / top, nil
	default:
		return 0, fmt.Errorf("%w: %s is not integer arithmetic", ErrUnknownOpcode, op)
	}
}

// evalFloat applies a float arithmetic opcode with IEEE-754 semantics;
// division by zero yields an infinity or NaN.
func evalFloat(op bytecode.Opcode, bottom, top float64) float64 {
	switch op {
	case bytecode.OpFadd:
		return bottom + top
	case bytecode.OpFsub:
		return bottom - top
	case bytecode.OpFmul:
		return bottom * top
	default:
		return bottom / top
	}
}

func compare[T int64 | float64](op bytecode.Opcode, bottom, top T) bool {
	switch op {
	case bytecode.OpIcmpeq, bytecode.OpFcmpeq:
		return bottom == top
	case bytecode.OpIcmpne, bytecode.OpFcmpne:
		return bottom != top
	case bytecode.OpIcmplt, bytecode.OpFcmplt:
		return bottom < top
	case bytecode.OpIcmple, bytecode.OpFcmple:
		return bottom <= top
	case bytecode.OpIcmpgt, bytecode.OpFcmpgt:
		return bottom > top
	default:
		return bottom >= top
	}
}
