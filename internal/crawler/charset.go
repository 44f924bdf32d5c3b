package crawler

import (
	"bytes"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// decoder picks the character encoding of content from the Content-Type
// header, a byte order mark or a <meta charset> declaration, falling back to
// windows-1252 as browsers do.
func decoder(content []byte, contentType string) (*encoding.Decoder, string) {
	enc, name, _ := charset.DetermineEncoding(content, contentType)
	return enc.NewDecoder(), name
}

// decodeContent returns a UTF-8 reader over content and the name of the
// encoding it was decoded from.
func decodeContent(content []byte, contentType string) (io.Reader, string) {
	dec, name := decoder(content, contentType)
	return transform.NewReader(bytes.NewReader(content), dec), name
}
