package interpreter

import (
	"io"
	"os"

	"stackvm/pkg/bytecode"
	"stackvm/pkg/stack"
)

// DefaultMaxCallDepth bounds the number of live frames unless overridden
// with WithMaxCallDepth.
const DefaultMaxCallDepth = 1 << 16

// Interpreter executes a bytecode.Program. The call stack is managed
// explicitly: invoke pushes a frame and return-family instructions pop it,
// so program recursion depth never grows the host stack.
type Interpreter struct {
	prog  *bytecode.Program    // shared, read-only
	calls *stack.Stack[*Frame] // live frames, entry frame at the bottom
	entry *Frame

	out io.Writer // output writer for print

	maxSteps int // maximum steps (0 = unlimited)
	steps    int // steps executed
	maxDepth int // maximum live frames (0 = unlimited)
	trace    bool

	halted    bool
	result    bytecode.Value
	hasResult bool
}

type Option func(*Interpreter)

// WithWriter sets the output writer for print instructions
func WithWriter(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithMaxSteps sets a maximum number of interpreter steps before returning ErrMaxStepsExceeded
func WithMaxSteps(n int) Option {
	return func(i *Interpreter) { i.maxSteps = n }
}

// WithMaxCallDepth sets the maximum number of live frames before invoke fails
// with ErrCallStackExhausted. Zero or less removes the limit.
func WithMaxCallDepth(n int) Option {
	return func(i *Interpreter) { i.maxDepth = n }
}

// WithTrace logs every dispatched instruction at debug level
func WithTrace(enabled bool) Option {
	return func(i *Interpreter) { i.trace = enabled }
}

// NewInterpreter creates an interpreter positioned at the program's entry
func NewInterpreter(prog *bytecode.Program, opts ...Option) *Interpreter {
	it := &Interpreter{
		prog:     prog,
		out:      nil, // caller should set, or use WithWriter
		maxSteps: 0,
		maxDepth: DefaultMaxCallDepth,
	}

	for _, o := range opts {
		o(it)
	}

	if it.out == nil {
		it.out = os.Stdout
	}

	it.Reset()
	return it
}

// Exec runs prog to completion with stdout as writer
func Exec(prog *bytecode.Program, opts ...Option) error {
	return NewInterpreter(prog, opts...).Run()
}

// Reset discards all frames and recreates the entry frame
func (i *Interpreter) Reset() {
	i.entry = newFrame(i.prog.Entry, make([]bytecode.Value, max(i.prog.Locals, 0)), nil, 0)
	i.calls = stack.NewStack(i.entry)
	i.steps = 0
	i.halted = false
	i.result = bytecode.Value{}
	i.hasResult = false
}

// Program returns the program being executed
func (i *Interpreter) Program() *bytecode.Program {
	return i.prog
}

// Output returns the output writer used for print
func (i *Interpreter) Output() io.Writer {
	return i.out
}

// Step executes a single instruction, returning (halted, error)
func (i *Interpreter) Step() (bool, error) {
	if i.halted {
		return true, nil
	}

	if i.maxSteps > 0 && i.steps >= i.maxSteps {
		return false, ErrMaxStepsExceeded
	}

	f := i.CurrentFrame()
	in, ok := i.prog.At(f.PC)
	if !ok {
		return false, &RuntimeError{PC: f.PC, Instruction: "<none>", Depth: i.Depth(), Err: ErrPCOutOfRange}
	}

	if i.trace {
		i.traceStep(f, in)
	}

	pc, depth := f.PC, i.Depth()
	halted, err := i.dispatch(f, in)
	i.steps++
	if err != nil {
		return false, &RuntimeError{PC: pc, Instruction: in.Render(i.prog.Labels), Depth: depth, Err: err}
	}

	i.halted = halted
	return halted, nil
}

// Run executes until the entry frame returns or an error occurs
func (i *Interpreter) Run() error {
	for {
		halted, err := i.Step()
		if err != nil {
			return err
		}

		if halted {
			return nil
		}
	}
}

// Halted reports whether the entry frame has returned
func (i *Interpreter) Halted() bool {
	return i.halted
}

// Result returns the value delivered by an ireturn/freturn in the entry frame
func (i *Interpreter) Result() (bytecode.Value, bool) {
	return i.result, i.hasResult
}

// Steps returns the number of instructions dispatched since the last Reset
func (i *Interpreter) Steps() int {
	return i.steps
}

// Depth returns the number of live frames
func (i *Interpreter) Depth() int {
	return i.calls.Size()
}

// CurrentFrame returns the executing frame, or nil once the entry frame
// has returned.
func (i *Interpreter) CurrentFrame() *Frame {
	f, _ := i.calls.Peek()
	return f
}

// EntryFrame returns the entry frame; it stays reachable after the program
// halts so its memory can be inspected.
func (i *Interpreter) EntryFrame() *Frame {
	return i.entry
}

// pushFrame places a callee on top of the call stack
func (i *Interpreter) pushFrame(f *Frame) {
	i.calls.Push(f)
}

// popFrame removes the current frame and returns its caller, which is nil
// when the entry frame was popped.
func (i *Interpreter) popFrame() *Frame {
	done, _ := i.calls.Pop()
	return done.Caller
}
