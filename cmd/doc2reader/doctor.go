package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-doc2reader"
	"github.com/alnah/go-doc2reader/internal/fileutil"
	"github.com/alnah/go-doc2reader/internal/hints"
)

// doctorTimeout bounds each external version probe.
const doctorTimeout = 30 * time.Second

// probeName is written inside a throwaway work directory to test the
// same create, write and rename path a conversion uses.
const probeName = "probe.html"

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"` // "ready", "warnings", "errors"
	Converter converterInfo `json:"converter"`
	Chrome    chromeInfo    `json:"chrome"`
	Env       envInfo       `json:"environment"`
	System    systemInfo    `json:"system"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

// converterInfo holds LibreOffice detection results.
type converterInfo struct {
	Found   bool   `json:"found"`
	Binary  string `json:"binary"`
	Version string `json:"version,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results (needed for --snapshot only).
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	WorkDirReady bool   `json:"work_dir_ready"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 2 = bad flags, 5 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args)
	if err != nil {
		return report(env, err)
	}

	binary := flags.soffice
	if binary == "" {
		binary = env.getenv(sofficeEnvVar)
	}

	ctx, cancel := context.WithTimeout(context.Background(), doctorTimeout)
	defer cancel()

	result := runDoctor(ctx, binary, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitEnvironment
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, binary string, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			BrowserBin: env.getenv("ROD_BROWSER_BIN"),
		},
	}

	checkConverter(ctx, result, binary, env)
	checkChrome(ctx, result, env)
	checkEnvironment(result, env)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkConverter runs `soffice --version`.
func checkConverter(ctx context.Context, result *doctorResult, binary string, env *Environment) {
	lo := doc2reader.NewLibreOffice(binary, 0, env.Runner)
	result.Converter.Binary = lo.Binary()

	version, err := lo.Version(ctx)
	if err != nil {
		result.Errors = append(result.Errors, err.Error()+hints.ForConverterMissing(lo.Binary()))
		return
	}
	result.Converter.Found = true
	result.Converter.Version = version
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(ctx context.Context, result *doctorResult, env *Environment) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		// Use rod's launcher to locate Chrome
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found: --snapshot will download Chromium or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	runner := env.Runner
	if runner == nil {
		runner = doc2reader.ExecRunner{}
	}
	out, _, err := runner.Run(ctx, chromePath, "--version")
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = sandboxEnabled(env)
}

// sandboxEnabled mirrors the snapshot launcher: the sandbox is turned off
// on CI and whenever a pre-installed browser is supplied.
func sandboxEnabled(env *Environment) bool {
	return env.getenv("CI") != "true" && env.getenv("ROD_BROWSER_BIN") == ""
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, env *Environment) {
	result.Env.Container, result.Env.ContainerHint = isContainer(env)

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if env.getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Env.Container && result.Chrome.Found && result.Chrome.Sandbox {
		result.Warnings = append(result.Warnings,
			"Container detected but Chrome sandbox is enabled. Set ROD_BROWSER_BIN or CI=true for --snapshot")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(env *Environment) (bool, string) {
	if env.getenv("DOC2READER_CONTAINER") == "1" {
		return true, "DOC2READER_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := env.getenv("container"); v != "" {
		return true, "container=" + v
	}
	if env.getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem creates a work directory and writes a file into it the way a
// conversion does, then removes it.
func checkSystem(result *doctorResult) {
	result.System.TempDir = os.TempDir()

	dir, cleanup, err := fileutil.MakeWorkDir("doc2reader-doctor-")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Cannot create work directory in %s: %v", result.System.TempDir, err))
		return
	}
	defer cleanup()

	if err := fileutil.WriteFileAtomic(filepath.Join(dir, probeName), []byte("<html></html>"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Work directory not writable: %v", err))
		return
	}
	result.System.WorkDirReady = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "doc2reader doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "LibreOffice")
	if r.Converter.Found {
		fmt.Fprintf(w, "  [OK] %s: %s\n", r.Converter.Binary, r.Converter.Version)
	} else {
		fmt.Fprintf(w, "  [ERROR] %s not runnable\n", r.Converter.Binary)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium (for --snapshot)")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (CI or ROD_BROWSER_BIN)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.WorkDirReady {
		fmt.Fprintf(w, "  [OK] Work directory: %s\n", r.System.TempDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Work directory: unusable in %s\n", r.System.TempDir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
