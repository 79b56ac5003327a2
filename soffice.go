package doc2reader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-doc2reader/internal/process"
)

// CommandRunner runs an external program to completion.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec in their own process group, so that
// cancelling the context also stops the children LibreOffice spawns.
type ExecRunner struct {
	// WaitDelay bounds how long output pipes are drained after a kill.
	WaitDelay time.Duration
}

// Run executes name with args and returns its captured output.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- binary is operator configuration
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	process.Configure(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return nil
	}
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = 5 * time.Second
	}

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Polling bounds for the converter's output file.
const (
	pollStart  = 50 * time.Millisecond
	pollMax    = time.Second
	settleTime = 10 * time.Second // no file after exit for this long means failure
)

// LibreOffice converts office documents with `soffice --headless`.
type LibreOffice struct {
	binary         string
	timeout        time.Duration
	runner         CommandRunner
	isolateProfile bool

	pollStart  time.Duration
	pollMax    time.Duration
	settleTime time.Duration
}

// NewLibreOffice creates a LibreOffice converter. Empty binary means
// "soffice", zero timeout means two minutes and nil runner means ExecRunner.
func NewLibreOffice(binary string, timeout time.Duration, runner CommandRunner) *LibreOffice {
	if binary == "" {
		binary = defaultBinary
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &LibreOffice{
		binary:     binary,
		timeout:    timeout,
		runner:     runner,
		pollStart:  pollStart,
		pollMax:    pollMax,
		settleTime: settleTime,
	}
}

// Binary returns the configured executable.
func (l *LibreOffice) Binary() string {
	return l.binary
}

// Version runs `soffice --version` and returns its first output line.
// Returns ErrConverterUnavailable if the binary cannot run or prints nothing.
func (l *LibreOffice) Version(ctx context.Context) (string, error) {
	stdout, stderr, err := l.runner.Run(ctx, l.binary, "--version")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s not found", ErrConverterUnavailable, l.binary)
		}
		return "", fmt.Errorf("%w: %s --version: %v%s", ErrConverterUnavailable, l.binary, err, stderrSuffix(stderr))
	}

	version, _, _ := strings.Cut(strings.TrimSpace(string(stdout)), "\n")
	if version == "" {
		return "", fmt.Errorf("%w: %s reported no version", ErrConverterUnavailable, l.binary)
	}
	return strings.TrimSpace(version), nil
}

// Check reports whether LibreOffice can run.
func (l *LibreOffice) Check(ctx context.Context) error {
	_, err := l.Version(ctx)
	return err
}

// Convert runs the HTML export of sourcePath into outDir and waits until the
// produced file stops growing. The whole operation is bounded by the
// converter timeout.
func (l *LibreOffice) Convert(ctx context.Context, sourcePath, outDir string) (*Conversion, error) {
	ctx, cancel := context.WithTimeoutCause(ctx, l.timeout, ErrConversionTimeout)
	defer cancel()

	args := []string{"--headless", "--convert-to", "html", "--outdir", outDir, sourcePath}
	if l.isolateProfile {
		profile := filepath.Join(outDir, ".profile")
		args = append([]string{"-env:UserInstallation=" + fileURL(profile)}, args...)
	}

	_, stderr, err := l.runner.Run(ctx, l.binary, args...)
	if err != nil {
		if cerr := conversionContextError(ctx); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("%w: %s exited: %v%s", ErrConversionFailed, l.binary, err, stderrSuffix(stderr))
	}

	htmlPath, err := l.waitForOutput(ctx, sourcePath, outDir)
	if err != nil {
		return nil, err
	}

	return &Conversion{HTMLPath: htmlPath, ResourceDir: outDir}, nil
}

// waitForOutput polls outDir with exponential backoff until the HTML output
// exists and has the same non-zero size on two consecutive polls.
func (l *LibreOffice) waitForOutput(ctx context.Context, sourcePath, outDir string) (string, error) {
	base := filepath.Base(sourcePath)
	expected := filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".html")

	delay := l.pollStart
	started := time.Now()
	lastPath, lastSize := "", int64(-1)

	for {
		path := findHTMLOutput(outDir, expected)
		if path != "" {
			if info, err := os.Stat(path); err == nil && info.Size() > 0 {
				if path == lastPath && info.Size() == lastSize {
					return path, nil
				}
				lastPath, lastSize = path, info.Size()
			}
		} else if time.Since(started) > l.settleTime {
			return "", fmt.Errorf("%w: no HTML output in %s", ErrConversionFailed, outDir)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", conversionContextError(ctx)
		case <-timer.C:
		}
		delay = min(delay*2, l.pollMax)
	}
}

// findHTMLOutput returns expected if it exists, else the first .html file in
// dir by name, else "".
func findHTMLOutput(dir, expected string) string {
	if info, err := os.Stat(expected); err == nil && info.Mode().IsRegular() {
		return expected
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".html") {
			return filepath.Join(dir, e.Name())
		}
	}
	return ""
}

// conversionContextError maps a finished context to the conversion error
// it stands for, or nil while the context is live.
func conversionContextError(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	if cause := context.Cause(ctx); errors.Is(cause, ErrConversionTimeout) {
		return cause
	}
	return ctx.Err()
}

// stderrSuffix formats the last line of a command's stderr for an error message.
func stderrSuffix(stderr []byte) string {
	s := strings.TrimSpace(string(stderr))
	if s == "" {
		return ""
	}
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return " (" + s + ")"
}

// fileURL returns the file:// URL of an absolute or relative path.
func fileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // Windows drive letter
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// Compile-time interface checks.
var (
	_ DocumentConverter = (*LibreOffice)(nil)
	_ CommandRunner     = ExecRunner{}
)
