package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadTemplateSet_Default(t *testing.T) {
	t.Parallel()

	ts, err := LoadTemplateSet(DefaultTemplateSetName)
	if err != nil {
		t.Fatalf("LoadTemplateSet(%q) error = %v", DefaultTemplateSetName, err)
	}
	if ts.Name != DefaultTemplateSetName {
		t.Errorf("Name = %q, want %q", ts.Name, DefaultTemplateSetName)
	}

	tests := []struct {
		name     string
		content  string
		contains []string
	}{
		{"head", ts.Head, []string{`name="viewport"`, `id="colorPalette"`}},
		{"upper", ts.Upper, []string{`id="document"`, `id="menuBtn"`, `id="pageNum"`, `id="percentage"`}},
		{"lower", ts.Lower, []string{"</div>", "setColorPalette", "{{.Active}}", "{{.Presets}}", "readerDisableClickPaging"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for _, want := range tt.contains {
				if !strings.Contains(tt.content, want) {
					t.Errorf("%s template missing %q", tt.name, want)
				}
			}
		})
	}
}

func TestLoadTemplateSet_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"nonexistent set", "nonexistent-xyz", ErrTemplateSetNotFound},
		{"empty name", "", ErrInvalidAssetName},
		{"traversal", "../templates", ErrInvalidAssetName},
		{"separator", "default/head", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadTemplateSet(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadTemplateSet(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
