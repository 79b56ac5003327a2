package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-doc2reader/internal/fileutil"
)

// GenericMediaType is used when a file's media type cannot be determined.
const GenericMediaType = "application/octet-stream"

// ResourceReference is one external file reference resolved for embedding.
type ResourceReference struct {
	Raw       string // attribute value as found in the document
	Path      string // resolved absolute file path
	MediaType string
	Generic   bool   // true when MediaType fell back to GenericMediaType
	Payload   string // standard base64 of the file bytes
}

// DataURI returns the embedded data descriptor for the reference.
func (r *ResourceReference) DataURI() string {
	return "data:" + r.MediaType + ";base64," + r.Payload
}

// ResourceResolver defines the contract for turning a reference into an
// embeddable payload.
type ResourceResolver interface {
	Resolve(ctx context.Context, raw string) (*ResourceReference, error)
}

// FileResolver resolves references against a base directory on disk.
// Each file is read and encoded once; later references to the same file reuse
// the payload. Not safe for concurrent use.
type FileResolver struct {
	baseDir string
	cache   map[string]*ResourceReference
}

// NewFileResolver creates a FileResolver rooted at baseDir.
func NewFileResolver(baseDir string) (*FileResolver, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving resource directory: %w", err)
	}
	// Compare real paths so symlinked temp dirs (macOS /var) still contain their files.
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	return &FileResolver{baseDir: abs, cache: make(map[string]*ResourceReference)}, nil
}

// Resolve reads the file named by raw and returns it encoded.
// Returns ErrResourceMissing if the file does not exist, is not a regular
// file, or lies outside the base directory.
func (r *FileResolver) Resolve(ctx context.Context, raw string) (*ResourceReference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := DecodeReference(raw)
	if name == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrResourceMissing)
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrResourceMissing, raw)
	}
	if !fileutil.IsWithinDir(real, r.baseDir) {
		return nil, fmt.Errorf("%w: %s is outside %s", ErrResourceMissing, raw, r.baseDir)
	}

	if cached, ok := r.cache[real]; ok {
		ref := *cached
		ref.Raw = raw
		return &ref, nil
	}

	info, err := os.Stat(real)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrResourceMissing, raw)
	}
	data, err := os.ReadFile(real) // #nosec G304 -- contained in baseDir above
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrResourceMissing, raw, err)
	}

	mediaType, ok := MediaType(real)
	ref := &ResourceReference{
		Raw:       raw,
		Path:      real,
		MediaType: mediaType,
		Generic:   !ok,
		Payload:   base64.StdEncoding.EncodeToString(data),
	}
	r.cache[real] = ref

	out := *ref
	return &out, nil
}

// imageMediaTypes covers the image formats office converters emit.
// Checked before the platform MIME table, which varies between systems.
var imageMediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".wmf":  "image/wmf",
	".emf":  "image/emf",
	".ico":  "image/x-icon",
	".avif": "image/avif",
}

// MediaType guesses the media type of a file from its extension.
// The second result is false when nothing matched and GenericMediaType is returned.
func MediaType(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return GenericMediaType, false
	}
	if t, ok := imageMediaTypes[ext]; ok {
		return t, true
	}
	if t := mime.TypeByExtension(ext); t != "" {
		// Parameters such as charset are not part of a data URI media type here.
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = strings.TrimSpace(t[:i])
		}
		return t, true
	}
	return GenericMediaType, false
}

// IsLocalReference reports whether raw points to a file on disk rather than
// inside the document (fragment, data URI) or on the network.
func IsLocalReference(raw string) bool {
	v := strings.TrimSpace(raw)
	if v == "" || strings.HasPrefix(v, "#") || strings.HasPrefix(v, "//") {
		return false
	}
	switch scheme := referenceScheme(v); {
	case scheme == "":
		return true
	case len(scheme) == 1:
		return true // Windows drive letter
	default:
		return strings.EqualFold(scheme, "file")
	}
}

// DecodeReference recovers a file path from a reference value: file URLs are
// reduced to their path, query and fragment are dropped and percent-encoding
// is decoded. Values that are not valid escapes are kept literally.
func DecodeReference(raw string) string {
	v := strings.TrimSpace(raw)

	if strings.EqualFold(referenceScheme(v), "file") {
		if u, err := url.Parse(v); err == nil {
			p := u.Path
			// file:///C:/x -> C:/x
			if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
				p = p[1:]
			}
			return filepath.FromSlash(p)
		}
		v = v[len("file:"):]
	}

	if i := strings.IndexAny(v, "?#"); i >= 0 {
		v = v[:i]
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		v = decoded
	}
	return filepath.FromSlash(v)
}

// referenceScheme returns the URL scheme of v, or "" when v has none.
func referenceScheme(v string) string {
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' || c == '+' || c == '-' || c == '.':
			if i == 0 {
				return ""
			}
		case c == ':':
			if i == 0 {
				return ""
			}
			return v[:i]
		default:
			return ""
		}
	}
	return ""
}

// Compile-time interface check.
var _ ResourceResolver = (*FileResolver)(nil)
