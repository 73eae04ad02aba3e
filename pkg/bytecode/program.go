package bytecode

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"stackvm/pkg/color"
)

// LabelTable maps symbolic names to instruction addresses. It is used for
// rendering only; dispatch works on resolved addresses.
type LabelTable map[string]int

// Name returns the label for addr, or the address itself when none exists.
// When several labels share an address the lexically first one wins.
func (t LabelTable) Name(addr int) string {
	if name, ok := t.Lookup(addr); ok {
		return name
	}

	return strconv.Itoa(addr)
}

// Lookup returns the label attached to addr.
func (t LabelTable) Lookup(addr int) (string, bool) {
	found := ""
	for name, a := range t {
		if a == addr && (found == "" || name < found) {
			found = name
		}
	}

	return found, found != ""
}

// Program is the ordered instruction sequence shared read-only by every
// frame, plus the data needed to start it.
type Program struct {
	Instructions []Instruction `cbor:"1,keyasint"`
	Labels       LabelTable    `cbor:"2,keyasint,omitempty"`
	Entry        int           `cbor:"3,keyasint,omitempty"` // first pc of the entry frame
	Locals       int           `cbor:"4,keyasint,omitempty"` // memory slots of the entry frame
}

// NewProgram creates a program that starts at address 0.
func NewProgram(instructions ...Instruction) *Program {
	return &Program{
		Instructions: instructions,
		Labels:       LabelTable{},
	}
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Instructions)
}

// At returns the instruction at addr.
func (p *Program) At(addr int) (Instruction, bool) {
	if addr < 0 || addr >= len(p.Instructions) {
		return Instruction{}, false
	}

	return p.Instructions[addr], true
}

// Render renders the instruction at addr using the program's labels.
func (p *Program) Render(addr int) string {
	in, ok := p.At(addr)
	if !ok {
		return fmt.Sprintf("<pc %d out of range>", addr)
	}

	return in.Render(p.Labels)
}

// Disassemble writes a listing of the program, one instruction per line,
// with label markers before labelled addresses.
func Disassemble(w io.Writer, p *Program) error {
	byAddr := make(map[int][]string)
	for name, addr := range p.Labels {
		byAddr[addr] = append(byAddr[addr], name)
	}

	for addr, in := range p.Instructions {
		names := byAddr[addr]
		sort.Strings(names)
		for _, name := range names {
			if _, err := fmt.Fprintf(w, "%s\n", color.GreenText(name+":")); err != nil {
				return err
			}
		}

		marker := "  "
		if addr == p.Entry {
			marker = color.BoldText("> ")
		}

		line := color.YellowText(in.Op.String())
		if rest := in.Render(p.Labels)[len(in.Op.String()):]; rest != "" {
			line += color.BlueText(rest)
		}

		if _, err := fmt.Fprintf(w, "%s%s  %s\n", marker, color.CyanText(fmt.Sprintf("%4d", addr)), line); err != nil {
			return err
		}
	}

	return nil
}
