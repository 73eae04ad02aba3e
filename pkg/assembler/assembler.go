// Package assembler turns the textual instruction format into a resolved
// bytecode.Program.
//
// One statement per line: optional labels (`name:`), then either a
// directive or an instruction mnemonic followed by comma-separated
// operands. Jump and invoke targets may be labels or literal addresses.
//
//	.entry main
//	main:   iconst 9
//	        invoke addOne, 1, 0
//	        istore 0
//	        print 0
//	        return
//	addOne: iload 0
//	        iconst 1
//	        iadd
//	        ireturn
package assembler

import (
	"strconv"

	"github.com/charmbracelet/log"

	"stackvm/pkg/bytecode"
	"stackvm/pkg/lexer"
)

type statement struct {
	op   bytecode.Opcode
	pos  lexer.Position
	args []lexer.Token
}

type assembler struct {
	lexer  *lexer.Lexer
	tok    lexer.Token // current token
	labels bytecode.LabelTable
	stmts  []statement

	entry     *lexer.Token // operand of .entry, if any
	locals    int
	hasLocals bool

	errors []Diagnostic
}

// Assemble parses src and resolves every label. On failure the returned
// error is an *Error carrying all diagnostics.
func Assemble(src string) (*bytecode.Program, error) {
	a := &assembler{
		lexer:  lexer.NewLexer(src),
		labels: bytecode.LabelTable{},
	}
	a.next()

	a.parse()
	prog := a.resolve()

	if len(a.errors) > 0 {
		return nil, &Error{Diagnostics: a.errors}
	}

	log.Debug("Assembled program", "instructions", prog.Len(), "labels", len(prog.Labels), "entry", prog.Entry, "locals", prog.Locals)
	return prog, nil
}

// next advances to the next token from the lexer
func (a *assembler) next() {
	a.tok = a.lexer.NextToken()
}

// parse is the first pass: it records labels at their addresses and
// collects statements without resolving operands.
func (a *assembler) parse() {
	for a.tok.Type != lexer.EOF {
		switch a.tok.Type {
		case lexer.NEWLINE:
			a.next()

		case lexer.LABEL:
			name := a.tok.Literal
			if prev, ok := a.labels[name]; ok {
				a.addError(a.tok.Pos, "Duplicate label `%s` (already at address %d)", name, prev)
			} else {
				a.labels[name] = len(a.stmts)
			}
			a.next()

		case lexer.DIRECTIVE:
			a.parseDirective()

		case lexer.IDENT:
			a.parseInstruction()

		case lexer.ILLEGAL:
			a.addError(a.tok.Pos, "Illegal character %q", a.tok.Lexeme)
			a.skipLine()

		default:
			a.addError(a.tok.Pos, "Unexpected %s %q", a.tok.Type, a.tok.Lexeme)
			a.skipLine()
		}
	}
}

func (a *assembler) parseInstruction() {
	start := a.tok
	op, ok := bytecode.ParseOpcode(start.Literal)
	if !ok {
		a.addError(start.Pos, "Unknown instruction `%s`", start.Literal)
		a.skipLine()
		return
	}

	args, ok := a.operands()
	if !ok {
		return
	}

	def, _ := bytecode.Lookup(op)
	if want := operandCount(def.Operand); len(args) != want {
		a.addError(start.Pos, "`%s` takes %d operand(s), found %d", def.Name, want, len(args))
		return
	}

	a.stmts = append(a.stmts, statement{op: op, pos: start.Pos, args: args})
}

func (a *assembler) parseDirective() {
	dir := a.tok
	args, ok := a.operands()
	if !ok {
		return
	}

	if len(args) != 1 {
		a.addError(dir.Pos, "Directive `.%s` takes 1 operand, found %d", dir.Literal, len(args))
		return
	}

	switch dir.Literal {
	case "entry":
		a.entry = &args[0]
	case "locals":
		n, ok := a.count(args[0])
		if ok {
			a.locals, a.hasLocals = n, true
		}
	default:
		a.addError(dir.Pos, "Unknown directive `.%s`", dir.Literal)
	}
}

// operands consumes the comma-separated operand list after the current
// token up to the end of the line.
func (a *assembler) operands() ([]lexer.Token, bool) {
	var args []lexer.Token
	a.next()

	for a.tok.Type != lexer.NEWLINE && a.tok.Type != lexer.EOF {
		if len(args) > 0 {
			if a.tok.Type != lexer.COMMA {
				a.addError(a.tok.Pos, "Missing comma before %q", a.tok.Lexeme)
				a.skipLine()
				return nil, false
			}
			a.next()
		}

		switch a.tok.Type {
		case lexer.IDENT, lexer.INT, lexer.FLOAT:
			args = append(args, a.tok)
			a.next()
		default:
			a.addError(a.tok.Pos, "Expected operand, found %s %q", a.tok.Type, a.tok.Lexeme)
			a.skipLine()
			return nil, false
		}
	}

	return args, true
}

// skipLine discards tokens up to and including the next newline
func (a *assembler) skipLine() {
	for a.tok.Type != lexer.NEWLINE && a.tok.Type != lexer.EOF {
		a.next()
	}
	if a.tok.Type == lexer.NEWLINE {
		a.next()
	}
}

// resolve is the second pass: it builds instructions with every operand
// converted and every label replaced by its address.
func (a *assembler) resolve() *bytecode.Program {
	prog := &bytecode.Program{
		Instructions: make([]bytecode.Instruction, 0, len(a.stmts)),
		Labels:       a.labels,
	}

	maxSlot := -1
	for _, st := range a.stmts {
		in := bytecode.Instruction{Op: st.op}
		def, _ := bytecode.Lookup(st.op)

		switch def.Operand {
		case bytecode.OperandConst:
			in.Const, _ = a.constant(st.op, st.args[0])

		case bytecode.OperandSlot:
			in.Arg, _ = a.count(st.args[0])

		case bytecode.OperandTarget:
			in.Arg, _ = a.address(st.args[0])

		case bytecode.OperandInvoke:
			in.Arg, _ = a.address(st.args[0])
			in.Params, _ = a.count(st.args[1])
			in.Locals, _ = a.count(st.args[2])
		}

		if slot, ok := in.Slot(); ok {
			maxSlot = max(maxSlot, slot)
		}

		prog.Instructions = append(prog.Instructions, in)
	}

	if a.entry != nil {
		prog.Entry, _ = a.address(*a.entry)
	}

	prog.Locals = maxSlot + 1
	if a.hasLocals {
		prog.Locals = a.locals
	}

	return prog
}

// constant converts an iconst/fconst operand. fconst accepts integer
// literals; iconst rejects floats.
func (a *assembler) constant(op bytecode.Opcode, tok lexer.Token) (bytecode.Value, bool) {
	switch {
	case op == bytecode.OpIconst && tok.Type == lexer.INT:
		n, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			a.addError(tok.Pos, "Integer %s out of range", tok.Literal)
			return bytecode.Value{}, false
		}
		return bytecode.Int(n), true

	case op == bytecode.OpFconst && (tok.Type == lexer.INT || tok.Type == lexer.FLOAT):
		x, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			a.addError(tok.Pos, "Invalid float %s", tok.Literal)
			return bytecode.Value{}, false
		}
		return bytecode.Float(x), true
	}

	a.addError(tok.Pos, "Type mismatch: `%s` cannot take %s %q", op, tok.Type, tok.Lexeme)
	return bytecode.Value{}, false
}

// count converts a non-negative integer operand (slot index or frame size).
func (a *assembler) count(tok lexer.Token) (int, bool) {
	if tok.Type != lexer.INT {
		a.addError(tok.Pos, "Expected non-negative integer, found %s %q", tok.Type, tok.Lexeme)
		return 0, false
	}

	n, err := strconv.Atoi(tok.Literal)
	if err != nil || n < 0 {
		a.addError(tok.Pos, "Expected non-negative integer, found %q", tok.Lexeme)
		return 0, false
	}

	return n, true
}

// address resolves a label or literal instruction address.
func (a *assembler) address(tok lexer.Token) (int, bool) {
	if tok.Type == lexer.IDENT {
		addr, ok := a.labels[tok.Literal]
		if !ok {
			a.addError(tok.Pos, "Undefined label `%s`", tok.Literal)
			return 0, false
		}
		if addr >= len(a.stmts) {
			a.addError(tok.Pos, "Label `%s` marks no instruction", tok.Literal)
			return 0, false
		}
		return addr, true
	}

	n, ok := a.count(tok)
	if !ok {
		return 0, false
	}
	if n >= len(a.stmts) {
		a.addError(tok.Pos, "Address %d outside program of %d instructions", n, len(a.stmts))
		return 0, false
	}

	return n, true
}

func operandCount(o bytecode.Operand) int {
	switch o {
	case bytecode.OperandNone:
		return 0
	case bytecode.OperandInvoke:
		return 3
	default:
		return 1
	}
}
