package csvsql

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// lookupEncoding resolves a text encoding by IANA/WHATWG label ("latin1",
// "shift_jis", ...). An empty label or any UTF-8 alias resolves to nil, which
// callers treat as pass-through.
func lookupEncoding(label string) (encoding.Encoding, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" || label == "utf-8" || label == "utf8" {
		return nil, nil
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	return enc, nil
}

// decodeReader wraps reader so its content is decoded from enc to UTF-8.
func decodeReader(reader io.Reader, enc encoding.Encoding) io.Reader {
	if enc == nil {
		return reader
	}
	return transform.NewReader(reader, enc.NewDecoder())
}

// encodeWriter wraps writer so UTF-8 content is encoded to enc. The returned
// closer flushes the transform and must be called before the underlying
// writer is closed.
func encodeWriter(writer io.Writer, enc encoding.Encoding) (io.Writer, func() error) {
	if enc == nil {
		return writer, func() error { return nil }
	}
	tw := transform.NewWriter(writer, enc.NewEncoder())
	return tw, tw.Close
}
