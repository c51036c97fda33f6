package field

import (
	"mime"
	"strings"
)

// Decode transforms a single header field body and looks for MIME word encoded
// field values. When they are found, these are decoded into native unicode
// using CharsetDecoder.
func Decode(body string) (string, error) {
	if !strings.Contains(body, "=?") {
		return body, nil
	}

	dec := &mime.WordDecoder{
		CharsetReader: CharsetDecoderToCharsetReader(CharsetDecoder),
	}
	return dec.DecodeHeader(body)
}
