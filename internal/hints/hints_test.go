package hints

// Notes:
// - ForBrowserConnect and ForConverterMissing tests cannot use t.Parallel()
//   because they use t.Setenv() and swap the package-level IsInContainer.
// - ForConverterMissing's install text is platform-dependent; we only assert
//   on the parts that are not.

import (
	"strings"
	"testing"
)

func TestForBrowserConnect_InCI(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	t.Setenv("CI", "true")
	t.Setenv("ROD_NO_SANDBOX", "")
	t.Setenv("ROD_BROWSER_BIN", "")

	hint := ForBrowserConnect()

	if !strings.Contains(hint, "hint:") {
		t.Error("expected hint prefix")
	}
	if !strings.Contains(hint, "ROD_NO_SANDBOX") {
		t.Error("expected ROD_NO_SANDBOX suggestion in CI")
	}
	if !strings.Contains(hint, "ROD_BROWSER_BIN") {
		t.Error("expected ROD_BROWSER_BIN suggestion")
	}
}

func TestForBrowserConnect_Configured(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITLAB_CI", "")
	t.Setenv("JENKINS_URL", "")
	t.Setenv("ROD_NO_SANDBOX", "1")
	t.Setenv("ROD_BROWSER_BIN", "/usr/bin/chromium")

	if hint := ForBrowserConnect(); hint != "" {
		t.Errorf("ForBrowserConnect() = %q, want empty when fully configured", hint)
	}
}

func TestForConverterMissing(t *testing.T) {
	t.Setenv("DOC2READER_SOFFICE", "")

	hint := ForConverterMissing("soffice")
	if !strings.Contains(hint, "LibreOffice") {
		t.Errorf("hint %q should mention LibreOffice", hint)
	}
	if !strings.Contains(hint, "DOC2READER_SOFFICE") {
		t.Errorf("hint %q should suggest DOC2READER_SOFFICE", hint)
	}

	custom := ForConverterMissing("/opt/lo/soffice")
	if strings.Contains(custom, "DOC2READER_SOFFICE") {
		t.Errorf("hint %q should not suggest env var for explicit binary", custom)
	}
}

func TestStaticHints(t *testing.T) {
	t.Parallel()

	for name, hint := range map[string]string{
		"timeout":  ForConversionTimeout(),
		"failed":   ForConversionFailed(),
		"resource": ForResourceMissing(),
		"output":   ForOutputDirectory(),
	} {
		if !strings.HasPrefix(hint, "\n  hint: ") {
			t.Errorf("%s hint = %q, want formatted prefix", name, hint)
		}
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	hint := ForConfigNotFound([]string{"reader.yaml", "/home/u/.config/go-doc2reader/reader.yaml"})
	if !strings.Contains(hint, "--config") {
		t.Error("expected --config suggestion")
	}
	if !strings.Contains(hint, "/home/u/.config/go-doc2reader/reader.yaml") {
		t.Errorf("hint %q should suggest user config path", hint)
	}
}

func TestForUnknownPalette(t *testing.T) {
	t.Parallel()

	if got := ForUnknownPalette(nil); got != "" {
		t.Errorf("ForUnknownPalette(nil) = %q, want empty", got)
	}
	got := ForUnknownPalette([]string{"dark", "light"})
	if !strings.Contains(got, "dark, light") {
		t.Errorf("ForUnknownPalette() = %q, want list", got)
	}
}
