package runner

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"stackvm/internal/config"
	"stackvm/pkg/assembler"
	"stackvm/pkg/bytecode"
	"stackvm/pkg/color"
	"stackvm/pkg/image"
	"stackvm/pkg/interpreter"
)

type Runner struct {
	Help          bool   // Show help message
	Verbose       bool   // Debug logging and instruction trace
	ShouldRun     bool   // Execute the program
	ShouldCompile bool   // Write a binary image
	Disassemble   bool   // Print the instruction listing
	NoColor       bool   // Disable colored output
	ConfigFile    string // Path to stackvm.toml, empty for the optional default
	SourceFile    string // Path to the source or image file
	OutputFile    string // Path of the image written by ShouldCompile

	Stdout io.Writer // Program output, os.Stdout when nil
}

// Execute loads the input, then disassembles, writes and runs it as requested.
// Run is implied when neither ShouldRun nor ShouldCompile is set.
func (r *Runner) Execute() error {
	out := r.Stdout
	if out == nil {
		out = os.Stdout
	}

	cfg, err := r.config()
	if err != nil {
		return err
	}
	if !cfg.Output.Color {
		color.EnableColor(false)
	}

	prog, err := r.load(out)
	if err != nil {
		return err
	}

	if cfg.Output.Disassemble {
		fmt.Fprintln(out, color.GreenText("=== Disassembly ==="))
		if err := bytecode.Disassemble(out, prog); err != nil {
			return err
		}
	}

	if r.ShouldCompile {
		data, err := image.Encode(prog)
		if err != nil {
			return fmt.Errorf("image encoding failed: %w", err)
		}
		if err := os.WriteFile(r.OutputFile, data, 0644); err != nil {
			return fmt.Errorf("cannot write %s: %w", r.OutputFile, err)
		}
		log.Info("Wrote image", "file", r.OutputFile, "bytes", len(data))
	}

	if r.ShouldRun || !r.ShouldCompile {
		if r.Verbose {
			fmt.Fprintln(out, color.GreenText("=== Program Output ==="))
		}

		intr := interpreter.NewInterpreter(prog, append(cfg.Options(), interpreter.WithWriter(out))...)
		if err := intr.Run(); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}

		if v, ok := intr.Result(); ok {
			log.Info("Entry returned", "value", v, "steps", intr.Steps())
		}
	}

	return nil
}

// config loads the run configuration and applies flag overrides.
func (r *Runner) config() (config.Config, error) {
	path, optional := r.ConfigFile, false
	if path == "" {
		path, optional = config.DefaultFile, true
	}

	cfg, err := config.Load(path, optional)
	if err != nil {
		return cfg, err
	}

	if r.NoColor {
		cfg.Output.Color = false
	}
	if r.Disassemble {
		cfg.Output.Disassemble = true
	}
	if r.Verbose {
		cfg.Run.Trace = true
	}

	// trace lines are debug records
	if cfg.Run.Trace {
		log.SetLevel(log.DebugLevel)
	}

	return cfg, nil
}

// load decodes an image or assembles source text, sniffing the header.
func (r *Runner) load(out io.Writer) (*bytecode.Program, error) {
	log.Info("Processing file", "file", r.SourceFile)

	input, err := os.ReadFile(r.SourceFile)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", r.SourceFile, err)
	}

	if image.IsImage(input) {
		prog, err := image.Decode(input)
		if err != nil {
			return nil, fmt.Errorf("invalid image %s: %w", r.SourceFile, err)
		}
		return prog, nil
	}

	prog, err := assembler.Assemble(string(input))
	if err != nil {
		var aerr *assembler.Error
		if errors.As(err, &aerr) {
			fmt.Fprintln(out, color.BrightRedText("=== Assembly Errors ==="))
			fmt.Fprint(out, aerr.Report())
			return nil, fmt.Errorf("assembly failed with %d errors", len(aerr.Diagnostics))
		}
		return nil, err
	}

	return prog, nil
}
