package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeSet creates {base}/templates/{name}/ with the given files.
func writeSet(t *testing.T, base, name string, files map[string]string) {
	t.Helper()

	dir := filepath.Join(base, "templates", name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	for file, content := range files {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", file, err)
		}
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if loader == nil {
			t.Fatal("NewFilesystemLoader() returned nil")
		}
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		_, err := NewFilesystemLoader(file)
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_LoadTemplateSet(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeSet(t, base, "custom", map[string]string{
		"head.html":  "<meta name=x>",
		"upper.html": "<div id=\"document\">",
		"lower.html": "</div>",
	})
	writeSet(t, base, "partial", map[string]string{
		"head.html": "<meta name=x>",
	})

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	t.Run("complete set", func(t *testing.T) {
		t.Parallel()

		ts, err := loader.LoadTemplateSet("custom")
		if err != nil {
			t.Fatalf("LoadTemplateSet() error = %v", err)
		}
		if ts.Head != "<meta name=x>" || ts.Upper != "<div id=\"document\">" || ts.Lower != "</div>" {
			t.Errorf("LoadTemplateSet() = %+v", ts)
		}
	})

	t.Run("incomplete set", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadTemplateSet("partial")
		if !errors.Is(err, ErrIncompleteTemplateSet) {
			t.Errorf("error = %v, want ErrIncompleteTemplateSet", err)
		}
	})

	t.Run("missing set", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadTemplateSet("absent")
		if !errors.Is(err, ErrTemplateSetNotFound) {
			t.Errorf("error = %v, want ErrTemplateSetNotFound", err)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadTemplateSet("../custom")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("error = %v, want ErrInvalidAssetName", err)
		}
	})
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	outside := t.TempDir()
	writeSet(t, outside, "evil", map[string]string{
		"head.html":  "a",
		"upper.html": "b",
		"lower.html": "c",
	})

	if err := os.MkdirAll(filepath.Join(base, "templates"), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	link := filepath.Join(base, "templates", "evil")
	if err := os.Symlink(filepath.Join(outside, "templates", "evil"), link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	_, err = loader.LoadTemplateSet("evil")
	if !errors.Is(err, ErrPathTraversal) {
		t.Errorf("error = %v, want ErrPathTraversal", err)
	}
}
