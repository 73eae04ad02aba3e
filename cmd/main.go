package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"stackvm/internal/logger"
	"stackvm/internal/runner"
	"stackvm/pkg/bytecode"
	"stackvm/pkg/color"
)

// Main entry point for the stackvm assembler and interpreter.
func main() {
	options := runner.Runner{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode (debug log and instruction trace)")
	flag.BoolVar(&options.ShouldRun, "r", false, "Run the program (default unless -c is given)")
	flag.BoolVar(&options.ShouldCompile, "c", false, "Write a binary image")
	flag.BoolVar(&options.Disassemble, "d", false, "Print the disassembled program")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.StringVar(&options.ConfigFile, "config", "", "Config file (default ./stackvm.toml if present)")
	flag.StringVar(&options.OutputFile, "o", "out.svm", "Output image name")

	flag.Parse()
	args := flag.Args()

	logger.Init(nil, options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] <file>\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()

		var names []string
		for _, op := range bytecode.Opcodes() {
			names = append(names, op.String())
		}
		fmt.Printf("Instructions:\n  %s\n", strings.Join(names, ", "))
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) == 0 {
		log.Fatal("No input file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	options.SourceFile = args[0]

	if err := options.Execute(); err != nil {
		log.Fatal("Execution failed", "error", err)
	}
}
