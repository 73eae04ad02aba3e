package runner

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stackvm/internal/logger"
	"stackvm/pkg/image"
	"stackvm/pkg/interpreter"
)

const addOne = `.entry main
main:   iconst 9
        invoke addOne, 1, 0
        print 0
        return
addOne: iload 0
        iconst 1
        iadd
        ireturn
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunSource(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	r := &Runner{
		NoColor:    true,
		SourceFile: writeFile(t, dir, "add.svm.s", addOne),
		Stdout:     &out,
	}
	if err := r.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if out.String() != "Print: 10\n" {
		t.Errorf("expected %q, got %q", "Print: 10\n", out.String())
	}
}

func TestCompileThenRunImage(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "add.svm")
	var out bytes.Buffer

	compile := &Runner{
		ShouldCompile: true,
		NoColor:       true,
		SourceFile:    writeFile(t, dir, "add.s", addOne),
		OutputFile:    imagePath,
		Stdout:        &out,
	}
	if err := compile.Execute(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("compile without -r should not run, got %q", out.String())
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		t.Fatal(err)
	}
	if !image.IsImage(data) {
		t.Fatal("output file is not an image")
	}

	run := &Runner{NoColor: true, SourceFile: imagePath, Stdout: &out}
	if err := run.Execute(); err != nil {
		t.Fatalf("run image: %v", err)
	}
	if out.String() != "Print: 10\n" {
		t.Errorf("expected %q, got %q", "Print: 10\n", out.String())
	}
}

func TestDisassembleFlag(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	r := &Runner{
		Disassemble: true,
		NoColor:     true,
		SourceFile:  writeFile(t, dir, "add.s", addOne),
		Stdout:      &out,
	}
	if err := r.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	listing := out.String()
	for _, want := range []string{"=== Disassembly ===", "addOne:", "invoke addOne, 1, 0", "Print: 10\n"} {
		if !strings.Contains(listing, want) {
			t.Errorf("output missing %q:\n%s", want, listing)
		}
	}
}

func TestAssemblyErrorsAreReported(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	r := &Runner{
		NoColor:    true,
		SourceFile: writeFile(t, dir, "bad.s", "iconst 1\nhalt\ngoto nowhere\n"),
		Stdout:     &out,
	}
	err := r.Execute()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "2 errors") {
		t.Errorf("unexpected error %q", err)
	}
	if !strings.Contains(out.String(), "=== Assembly Errors ===") || !strings.Contains(out.String(), "Unknown instruction `halt`") {
		t.Errorf("unexpected report:\n%s", out.String())
	}
}

func TestRuntimeErrorIsWrapped(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	r := &Runner{
		NoColor:    true,
		SourceFile: writeFile(t, dir, "div.s", "iconst 1\niconst 0\nidiv\nreturn\n"),
		Stdout:     &out,
	}
	err := r.Execute()
	if !errors.Is(err, interpreter.ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
}

func TestConfigLimitsApply(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	r := &Runner{
		NoColor:    true,
		ConfigFile: writeFile(t, dir, "stackvm.toml", "[run]\nmax_steps = 100\n"),
		SourceFile: writeFile(t, dir, "spin.s", "loop: goto loop\n"),
		Stdout:     &out,
	}
	err := r.Execute()
	if !errors.Is(err, interpreter.ErrMaxStepsExceeded) {
		t.Fatalf("expected step limit, got %v", err)
	}
}

func TestMissingInputs(t *testing.T) {
	dir := t.TempDir()

	r := &Runner{NoColor: true, SourceFile: filepath.Join(dir, "absent.s")}
	if err := r.Execute(); err == nil {
		t.Error("expected error for missing source")
	}

	r = &Runner{
		NoColor:    true,
		ConfigFile: filepath.Join(dir, "absent.toml"),
		SourceFile: writeFile(t, dir, "ok.s", "return\n"),
	}
	if err := r.Execute(); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestConfigTraceEnablesDebugLog(t *testing.T) {
	dir := t.TempDir()
	var out, logs bytes.Buffer

	logger.Init(&logs, false, true)
	defer logger.Init(nil, false, true)

	r := &Runner{
		NoColor:    true,
		ConfigFile: writeFile(t, dir, "stackvm.toml", "[run]\ntrace = true\n"),
		SourceFile: writeFile(t, dir, "add.s", addOne),
		Stdout:     &out,
	}
	if err := r.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if out.String() != "Print: 10\n" {
		t.Errorf("trace must not touch program output, got %q", out.String())
	}
	for _, want := range []string{"exec", "instr=\"invoke addOne, 1, 0\"", "Frame pushed", "Frame popped"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log output missing %q:\n%s", want, logs.String())
		}
	}
}

func TestNoTraceByDefault(t *testing.T) {
	dir := t.TempDir()
	var out, logs bytes.Buffer

	logger.Init(&logs, false, true)
	defer logger.Init(nil, false, true)

	r := &Runner{
		NoColor:    true,
		SourceFile: writeFile(t, dir, "add.s", addOne),
		Stdout:     &out,
	}
	if err := r.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if strings.Contains(logs.String(), "exec") {
		t.Errorf("unexpected trace output:\n%s", logs.String())
	}
}
