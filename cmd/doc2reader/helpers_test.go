package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-doc2reader"
)

// fakeConverter records the options and inputs it receives.
type fakeConverter struct {
	result      *doc2reader.Result
	err         error
	png         []byte
	snapshotErr error
	palettes    []doc2reader.Palette

	inputs       []doc2reader.Input
	snapshotPath string
	closed       bool
}

func (f *fakeConverter) Convert(_ context.Context, input doc2reader.Input) (*doc2reader.Result, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeConverter) Snapshot(_ context.Context, htmlPath string) ([]byte, error) {
	f.snapshotPath = htmlPath
	return f.png, f.snapshotErr
}

func (f *fakeConverter) Palettes() []doc2reader.Palette {
	if f.palettes != nil {
		return f.palettes
	}
	return doc2reader.Presets()
}

func (f *fakeConverter) Close() error {
	f.closed = true
	return nil
}

// fakeRunner answers --version and counts every invocation.
type fakeRunner struct {
	mu      sync.Mutex
	calls   [][]string
	version string
	err     error
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.mu.Lock()
	r.calls = append(r.calls, append([]string{name}, args...))
	r.mu.Unlock()

	if r.err != nil {
		return nil, nil, r.err
	}
	if slices.Contains(args, "--version") {
		return []byte(r.version), nil, nil
	}
	return nil, nil, nil
}

func (r *fakeRunner) conversions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if slices.Contains(c, "--convert-to") {
			n++
		}
	}
	return n
}

// testEnv returns an Environment writing to buffers, with conv as the
// converter and no environment variables.
func testEnv(conv *fakeConverter) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(string) string { return "" },
		NewConverter: func(...doc2reader.Option) (Converter, error) {
			if conv == nil {
				return nil, errors.New("no converter")
			}
			return conv, nil
		},
	}
	return env, &stdout, &stderr
}

// okResult is a successful conversion of doc.odt.
func okResult() *doc2reader.Result {
	return &doc2reader.Result{
		HTML:    []byte("<html><body>reader</body></html>"),
		Name:    "doc.html",
		Palette: doc2reader.DefaultPalette(),
	}
}

func writeSource(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("source"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}
