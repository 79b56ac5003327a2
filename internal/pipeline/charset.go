package pipeline

import (
	"bytes"
	"fmt"
	"regexp"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// metaCharsetPattern matches the charset value of a meta declaration, in
// both <meta charset=…> and http-equiv content forms.
// Captures: 1=everything up to the value, 2=the value.
var metaCharsetPattern = regexp.MustCompile(`(?i)(<meta\b[^>]*?charset\s*=\s*["']?)([\w.:-]+)`)

// DecodeHTML converts converter output to UTF-8 text. The encoding comes from
// a byte order mark, the contentType argument (may be empty) or a meta
// declaration in the first kilobyte. Input that is valid UTF-8 is kept as is
// unless a BOM or contentType says otherwise. Returns the text and the name
// of the encoding it was decoded from.
func DecodeHTML(data []byte, contentType string) (string, string, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		return string(data[len(utf8BOM):]), "utf-8", nil
	}

	enc, name, certain := charset.DetermineEncoding(data, contentType)
	if name == "utf-8" || (!certain && utf8.Valid(data)) {
		return string(data), "utf-8", nil
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("%w: from %s: %v", ErrDecode, name, err)
	}

	return rewriteMetaCharset(string(decoded)), name, nil
}

// rewriteMetaCharset makes meta charset declarations agree with UTF-8 text.
func rewriteMetaCharset(htmlContent string) string {
	return metaCharsetPattern.ReplaceAllString(htmlContent, "${1}utf-8")
}
