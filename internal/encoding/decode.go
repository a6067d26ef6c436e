// Package encoding converts payloads in legacy charsets to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader returns a reader yielding r as UTF-8. A charset declared in
// contentType wins; otherwise the payload is sniffed for a BOM, checked for
// valid UTF-8 and finally handed to chardet. Unknown charsets are read as
// Windows-1252.
func NewUTF8Reader(r io.Reader, contentType string) (io.Reader, error) {
	br := bufio.NewReader(r)

	if enc := declared(contentType); enc != nil {
		return transform.NewReader(br, enc.NewDecoder()), nil
	}

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peeking payload: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(head, bomUTF16LE):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case bytes.HasPrefix(head, bomUTF16BE):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	case utf8.Valid(head):
		return br, nil
	}

	return transform.NewReader(br, detect(head).NewDecoder()), nil
}

// DecodeJSON decodes a JSON payload of any supported charset into v.
func DecodeJSON(r io.Reader, contentType string, v any) error {
	utf8Reader, err := NewUTF8Reader(r, contentType)
	if err != nil {
		return err
	}

	if err := json.NewDecoder(utf8Reader).Decode(v); err != nil {
		return fmt.Errorf("decoding json: %w", err)
	}

	return nil
}

// declared returns the non UTF-8 encoding named by the charset parameter.
func declared(contentType string) encoding.Encoding {
	if contentType == "" {
		return nil
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil
	}

	name := strings.ToLower(strings.TrimSpace(params["charset"]))
	if name == "" || name == "utf-8" || name == "utf8" {
		return nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil
	}

	return enc
}

func detect(head []byte) encoding.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(head)
	if err != nil {
		return charmap.Windows1252
	}

	switch result.Charset {
	case "ISO-8859-9":
		return charmap.ISO8859_9
	case "ISO-8859-15":
		return charmap.ISO8859_15
	}

	return charmap.Windows1252
}
