package yamlutil_test

// Notes:
// - Encode error branch is not tested: the YAML library only fails on
//   unmarshalable types (channels, functions) that never reach this wrapper.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-doc2reader/internal/yamlutil"
)

type paletteDoc struct {
	Name       string `yaml:"name"`
	Background string `yaml:"background"`
	FontSize   string `yaml:"fontSize"`
}

func TestDecodeStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		dest    any
		wantErr error
		wantAny bool
	}{
		{
			name: "valid document",
			data: "name: dusk\nbackground: \"#222\"\nfontSize: 18px\n",
			dest: &paletteDoc{},
		},
		{
			name:    "empty input",
			data:    "",
			dest:    &paletteDoc{},
			wantErr: yamlutil.ErrEmptyInput,
		},
		{
			name:    "nil destination",
			data:    "name: dusk",
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "unknown field rejected",
			data:    "name: dusk\nbackgroud: \"#222\"\n",
			dest:    &paletteDoc{},
			wantAny: true,
		},
		{
			name:    "malformed YAML",
			data:    "name: [unclosed",
			dest:    &paletteDoc{},
			wantAny: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.DecodeStrict([]byte(tt.data), tt.dest)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("DecodeStrict() error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantAny:
				if err == nil {
					t.Error("DecodeStrict() expected error, got nil")
				}
			default:
				if err != nil {
					t.Errorf("DecodeStrict() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestDecodeStrict_Values(t *testing.T) {
	t.Parallel()

	var doc paletteDoc
	if err := yamlutil.DecodeStrict([]byte("name: dusk\nbackground: \"#222\"\nfontSize: 18px\n"), &doc); err != nil {
		t.Fatalf("DecodeStrict() error = %v", err)
	}
	if doc.Name != "dusk" || doc.Background != "#222" || doc.FontSize != "18px" {
		t.Errorf("decoded = %+v", doc)
	}
}

func TestDecodeStrict_TooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("name: " + strings.Repeat("x", yamlutil.MaxInputSize))
	err := yamlutil.DecodeStrict(data, &paletteDoc{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("DecodeStrict() error = %v, want ErrInputTooLarge", err)
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.Encode(paletteDoc{Name: "dusk", Background: "#222", FontSize: "18px"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	for _, want := range []string{"name: dusk", "fontSize: 18px"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("Encode() output missing %q:\n%s", want, out)
		}
	}

	var back paletteDoc
	if err := yamlutil.DecodeStrict(out, &back); err != nil {
		t.Fatalf("DecodeStrict(Encode()) error = %v", err)
	}
	if back.Background != "#222" {
		t.Errorf("Background = %q, want %q", back.Background, "#222")
	}
}
