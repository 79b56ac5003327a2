package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
)

// countingResolver records resolve calls and delegates to a FileResolver.
type countingResolver struct {
	next  ResourceResolver
	calls []string
}

func (c *countingResolver) Resolve(ctx context.Context, raw string) (*ResourceReference, error) {
	c.calls = append(c.calls, raw)
	return c.next.Resolve(ctx, raw)
}

// failingResolver returns err for every reference.
type failingResolver struct{ err error }

func (f *failingResolver) Resolve(context.Context, string) (*ResourceReference, error) {
	return nil, f.err
}

func newCountingResolver(t *testing.T, dir string) *countingResolver {
	t.Helper()

	fr, err := NewFileResolver(dir)
	if err != nil {
		t.Fatalf("NewFileResolver() error = %v", err)
	}
	return &countingResolver{next: fr}
}

var dataURIPattern = regexp.MustCompile(`src="data:([^;]+);base64,([^"]*)"`)

func TestImageInliner_NoLocalReferences(t *testing.T) {
	t.Parallel()

	input := `<html><body><p>x</p>` +
		`<img src="data:image/png;base64,AAAA">` +
		`<img src="https://example.com/a.png">` +
		`<img alt="no src">` +
		`<!-- <img src="commented.png"> -->` +
		`</body></html>`

	resolver := newCountingResolver(t, t.TempDir())
	got, report, err := (&ImageInliner{}).Inline(context.Background(), input, resolver)
	if err != nil {
		t.Fatalf("Inline() error = %v", err)
	}
	if got != input {
		t.Errorf("Inline() modified document:\n%q", got)
	}
	if report.Scans != 1 {
		t.Errorf("Scans = %d, want 1", report.Scans)
	}
	if len(resolver.calls) != 0 {
		t.Errorf("resolver called %d times, want 0", len(resolver.calls))
	}
}

func TestImageInliner_InlinesEveryReference(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string][]byte{
		"a.png":         {0x89, 'P', 'N', 'G', 1, 2, 3},
		"b.gif":         []byte("GIF89a-bytes"),
		"my photo.jpeg": {0xFF, 0xD8, 0xFF, 0x00},
	}
	for name, data := range files {
		writeResource(t, dir, name, data)
	}

	input := `<html><body>` +
		`<p><img src="a.png" alt="first"></p>` +
		`<IMG width=3 SRC='b.gif'/>` +
		`<img src="my%20photo.jpeg">` +
		`</body></html>`

	resolver := newCountingResolver(t, dir)
	got, report, err := (&ImageInliner{}).Inline(context.Background(), input, resolver)
	if err != nil {
		t.Fatalf("Inline() error = %v", err)
	}

	if len(report.Inlined) != 3 {
		t.Fatalf("Inlined = %d, want 3", len(report.Inlined))
	}
	if report.Scans != 4 {
		t.Errorf("Scans = %d, want 4", report.Scans)
	}
	if strings.Contains(got, "doc2reader-inlined") {
		t.Error("marker left in output")
	}
	if refs := ExternalImageRefs(got); len(refs) != 0 {
		t.Errorf("external references left: %v", refs)
	}

	order := []string{"a.png", "b.gif", "my photo.jpeg"}
	types := []string{"image/png", "image/gif", "image/jpeg"}
	uris := regexp.MustCompile(`(?i)src=["']data:([^;]+);base64,([^"']*)["']`).FindAllStringSubmatch(got, -1)
	if len(uris) != len(order) {
		t.Fatalf("found %d data URIs, want %d", len(uris), len(order))
	}
	for i, m := range uris {
		if m[1] != types[i] {
			t.Errorf("URI %d type = %q, want %q", i, m[1], types[i])
		}
		decoded, err := base64.StdEncoding.DecodeString(m[2])
		if err != nil {
			t.Fatalf("URI %d payload: %v", i, err)
		}
		if string(decoded) != string(files[order[i]]) {
			t.Errorf("URI %d decodes to %v, want bytes of %s", i, decoded, order[i])
		}
	}

	// Other attributes and quoting survive.
	if !strings.Contains(got, `alt="first"></p>`) {
		t.Error("alt attribute lost")
	}
	if !strings.Contains(got, `<img width=3 SRC='data:image/gif;base64,`) {
		t.Errorf("single-quoted upper-case tag not preserved: %s", got)
	}
}

func TestImageInliner_DuplicateReferences(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeResource(t, dir, "a.png", []byte("same"))

	input := `<img src="a.png"><img src="a.png">`
	resolver := newCountingResolver(t, dir)
	got, report, err := (&ImageInliner{}).Inline(context.Background(), input, resolver)
	if err != nil {
		t.Fatalf("Inline() error = %v", err)
	}

	want := fmt.Sprintf(`<img src="data:image/png;base64,%[1]s"><img src="data:image/png;base64,%[1]s">`,
		base64.StdEncoding.EncodeToString([]byte("same")))
	if got != want {
		t.Errorf("Inline() = %q, want %q", got, want)
	}
	if len(report.Inlined) != 2 || len(resolver.calls) != 2 {
		t.Errorf("Inlined = %d, calls = %d, want 2 and 2", len(report.Inlined), len(resolver.calls))
	}
}

func TestImageInliner_MissingResource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeResource(t, dir, "ok.png", []byte("ok"))

	input := `<img src="gone.png" alt="x"><img src="ok.png">`
	resolver := newCountingResolver(t, dir)
	got, report, err := (&ImageInliner{}).Inline(context.Background(), input, resolver)
	if err != nil {
		t.Fatalf("Inline() error = %v", err)
	}

	if !strings.HasPrefix(got, `<img src="gone.png" alt="x">`) {
		t.Errorf("missing reference was altered: %q", got)
	}
	if len(report.Missing) != 1 || report.Missing[0].Ref != "gone.png" {
		t.Fatalf("Missing = %+v, want gone.png", report.Missing)
	}
	if !errors.Is(report.Missing[0].Err, ErrResourceMissing) {
		t.Errorf("Missing error = %v, want ErrResourceMissing", report.Missing[0].Err)
	}
	if len(report.Inlined) != 1 {
		t.Errorf("Inlined = %d, want 1", len(report.Inlined))
	}
	// gone.png is attempted exactly once.
	attempts := 0
	for _, c := range resolver.calls {
		if c == "gone.png" {
			attempts++
		}
	}
	if attempts != 1 {
		t.Errorf("gone.png resolved %d times, want 1", attempts)
	}
}

func TestImageInliner_ImageTagAlias(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeResource(t, dir, "a.png", []byte("alias"))

	input := `<p><IMAGE alt="x" src="a.png"><image src="gone.png"></p>`
	got, report, err := (&ImageInliner{}).Inline(context.Background(), input, newCountingResolver(t, dir))
	if err != nil {
		t.Fatalf("Inline() error = %v", err)
	}

	want := `<p><image alt="x" src="data:image/png;base64,` +
		base64.StdEncoding.EncodeToString([]byte("alias")) + `"><image src="gone.png"></p>`
	if got != want {
		t.Errorf("Inline() = %q, want %q", got, want)
	}
	if len(report.Inlined) != 1 || len(report.Missing) != 1 {
		t.Errorf("Inlined = %d, Missing = %d, want 1 and 1", len(report.Inlined), len(report.Missing))
	}
}

func TestImageInliner_DecodesCharacterReferences(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeResource(t, dir, "a&b.png", []byte("amp"))

	got, report, err := (&ImageInliner{}).Inline(context.Background(), `<img src="a&amp;b.png">`, newCountingResolver(t, dir))
	if err != nil {
		t.Fatalf("Inline() error = %v", err)
	}
	if len(report.Inlined) != 1 {
		t.Fatalf("Inlined = %d, want 1 (missing: %+v)", len(report.Inlined), report.Missing)
	}
	if !dataURIPattern.MatchString(got) {
		t.Errorf("Inline() = %q, want data URI", got)
	}
}

func TestImageInliner_ResolverError(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk on fire")
	_, _, err := (&ImageInliner{}).Inline(context.Background(), `<img src="a.png">`, &failingResolver{err: boom})
	if !errors.Is(err, boom) {
		t.Errorf("Inline() error = %v, want %v", err, boom)
	}
}

func TestImageInliner_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := (&ImageInliner{}).Inline(ctx, `<img src="a.png">`, &failingResolver{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Inline() error = %v, want context.Canceled", err)
	}
}

func TestInlineReport_Generic(t *testing.T) {
	t.Parallel()

	report := &InlineReport{Inlined: []*ResourceReference{
		{Raw: "a.png", MediaType: "image/png"},
		{Raw: "b.bin", MediaType: GenericMediaType, Generic: true},
	}}

	got := report.Generic()
	if len(got) != 1 || got[0].Raw != "b.bin" {
		t.Errorf("Generic() = %+v, want b.bin only", got)
	}
}
