package main

// Notes:
// - runMain is tested through exit codes and output. Conversions use either
//   fakeConverter or the real library with a fake CommandRunner, so
//   LibreOffice never runs.
// - Tests that change the working directory are not parallel.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunMain_Commands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no args", nil, ExitUsage, "", "Usage: doc2reader"},
		{"version", []string{"version"}, ExitSuccess, "doc2reader dev", ""},
		{"version flag", []string{"--version"}, ExitSuccess, "doc2reader dev", ""},
		{"help", []string{"help"}, ExitSuccess, "Commands:", ""},
		{"help convert", []string{"help", "convert"}, ExitSuccess, "--palette", ""},
		{"help palettes", []string{"help", "palettes"}, ExitSuccess, "doc2reader palettes", ""},
		{"help doctor", []string{"help", "doctor"}, ExitSuccess, "doc2reader doctor", ""},
		{"help unknown", []string{"help", "nope"}, ExitUsage, "", "Unknown command: nope"},
		{"unknown command", []string{"frobnicate"}, ExitUsage, "", "Unknown command: frobnicate"},
		{"convert without source", []string{"convert"}, ExitUsage, "", "no source document specified"},
		{"convert bad flag", []string{"convert", "--nope", "a.docx"}, ExitUsage, "", "invalid usage"},
		{"convert help", []string{"convert", "--help"}, ExitSuccess, "", "Usage: doc2reader convert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(&fakeConverter{result: okResult()})
			code := runMain(tt.args, env)

			if code != tt.wantCode {
				t.Errorf("runMain() = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr, tt.wantStderr)
			}
		})
	}
}

func TestRunMain_NonexistentSource(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{version: "LibreOffice 7.6"}
	env, _, stderr := testEnv(nil)
	env.Runner = runner
	env.NewConverter = newConverter

	out := filepath.Join(t.TempDir(), "out.html")
	code := runMain([]string{"convert", filepath.Join(t.TempDir(), "missing.docx"), out}, env)

	if code != ExitUsage {
		t.Errorf("runMain() = %d, want %d", code, ExitUsage)
	}
	if len(runner.calls) != 0 {
		t.Errorf("converter invoked %d times, want 0", len(runner.calls))
	}
	if !strings.Contains(stderr.String(), "source document not found") {
		t.Errorf("stderr = %q", stderr)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output written for a failed run")
	}
}

func TestRunMain_ConverterUnavailable(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: os.ErrNotExist}
	env, _, stderr := testEnv(nil)
	env.Runner = runner
	env.NewConverter = newConverter

	dir := t.TempDir()
	src := writeSource(t, dir, "report.docx")
	out := filepath.Join(dir, "out.html")

	code := runMain([]string{"convert", src, out}, env)

	if code != ExitEnvironment {
		t.Errorf("runMain() = %d, want %d (stderr: %s)", code, ExitEnvironment, stderr)
	}
	if runner.conversions() != 0 {
		t.Error("conversion attempted with an unavailable converter")
	}
	if !strings.Contains(stderr.String(), "hint:") {
		t.Errorf("stderr = %q, want a hint", stderr)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output written for a failed run")
	}
}

func TestRunMain_NoOutputProduced(t *testing.T) {
	t.Parallel()

	// soffice "succeeds" but writes nothing.
	env, _, stderr := testEnv(nil)
	env.Runner = &fakeRunner{version: "LibreOffice 7.6"}
	env.NewConverter = newConverter

	dir := t.TempDir()
	src := writeSource(t, dir, "report.docx")

	code := runMain([]string{"convert", "--timeout", "200ms", src, filepath.Join(dir, "out.html")}, env)
	if code != ExitConversion {
		t.Errorf("runMain() = %d, want %d (stderr: %s)", code, ExitConversion, stderr)
	}
}

func TestRunMain_ImplicitConvert(t *testing.T) {
	t.Parallel()

	conv := &fakeConverter{result: okResult()}
	env, stdout, _ := testEnv(conv)

	dir := t.TempDir()
	src := writeSource(t, dir, "notes.odt")
	out := filepath.Join(dir, "reader.html")

	if code := runMain([]string{src, out}, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d", code)
	}
	if len(conv.inputs) != 1 || conv.inputs[0].SourcePath != src {
		t.Errorf("inputs = %+v", conv.inputs)
	}
	if !strings.Contains(stdout.String(), "Your reader was saved as "+out) {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestLooksLikeDocument(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"report.docx": true,
		"a/b.md":      true,
		"convert":     false,
		"-v":          false,
		"--x.y":       false,
	}
	for arg, want := range tests {
		if got := looksLikeDocument(arg); got != want {
			t.Errorf("looksLikeDocument(%q) = %v, want %v", arg, got, want)
		}
	}
}
