// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"runtime"
	"strings"

	"github.com/alnah/go-doc2reader/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForConverterMissing returns hints for a document converter that cannot be
// invoked. The install suggestion depends on the platform.
func ForConverterMissing(binary string) string {
	var hints []string

	switch runtime.GOOS {
	case "darwin":
		hints = append(hints, "install LibreOffice (brew install --cask libreoffice)")
	case "windows":
		hints = append(hints, "install LibreOffice and add its program directory to PATH")
	default:
		hints = append(hints, "install LibreOffice (e.g. apt install libreoffice-core)")
	}

	if os.Getenv("DOC2READER_SOFFICE") == "" && binary == "soffice" {
		hints = append(hints, "set DOC2READER_SOFFICE or --soffice to the soffice executable")
	}

	return formatHints(hints)
}

// ForConversionTimeout returns a hint about raising the conversion timeout.
func ForConversionTimeout() string {
	return format("large documents take longer, use --timeout (e.g. --timeout 5m)")
}

// ForConversionFailed returns hints when the converter ran but produced nothing.
// A running desktop LibreOffice instance is the usual culprit.
func ForConversionFailed() string {
	return format("close running LibreOffice windows and check the source opens in LibreOffice")
}

// ForResourceMissing returns a hint for references that could not be inlined.
func ForResourceMissing() string {
	return format("drop --strict to keep the reader with the broken images")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	// Detect CI environment
	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	// Suggest ROD_NO_SANDBOX for container/CI environments
	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	// Suggest ROD_BROWSER_BIN if not set
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), "go-doc2reader/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output write errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForUnknownPalette returns hints listing the palettes that do exist.
func ForUnknownPalette(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
