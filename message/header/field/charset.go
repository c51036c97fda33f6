package field

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// Decoder transforms bytes in the named charset into a native unicode string.
// Bytes invalid in the source charset should become unicode.ReplacementChar.
// An unsupported charset is reported with an error.
type Decoder func(charset string, b []byte) (string, error)

// CharsetDecoder is the Decoder used while decoding encoded words in header
// field bodies. It may be replaced.
var CharsetDecoder Decoder = IANACharsetDecoder

// DefaultCharsetDecoder handles us-ascii, iso-8859-1 (a.k.a. latin1), and
// utf-8 only. Anything else is an error.
//
// Any 8-bit byte in us-ascii input becomes unicode.ReplacementChar, as does
// every invalid sequence in utf-8 input.
func DefaultCharsetDecoder(charset string, b []byte) (string, error) {
	switch strings.ToLower(charset) {
	case "us-ascii", "":
		var s strings.Builder
		for _, c := range b {
			if c > unicode.MaxASCII {
				s.WriteRune(unicode.ReplacementChar)
			} else {
				s.WriteByte(c)
			}
		}
		return s.String(), nil
	case "iso-8859-1", "latin1":
		s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
		return string(s), err
	case "utf-8":
		var s strings.Builder
		for len(b) > 0 {
			r, size := utf8.DecodeRune(b)
			s.WriteRune(r)
			b = b[size:]
		}
		return s.String(), nil
	default:
		return "", fmt.Errorf("unsupported byte encoding %q", charset)
	}
}

// IANACharsetDecoder looks the charset up in the IANA registry and decodes with
// whatever encoding is found there, which covers pretty much any charset seen
// in the wild. It falls back to DefaultCharsetDecoder when the registry does
// not know the name.
func IANACharsetDecoder(charset string, b []byte) (string, error) {
	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil || e == nil {
		return DefaultCharsetDecoder(charset, b)
	}

	eb, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}

	return string(eb), nil
}

// CharsetDecoderToCharsetReader adapts a Decoder to the CharsetReader hook of
// mime.WordDecoder.
func CharsetDecoderToCharsetReader(decode Decoder) func(string, io.Reader) (io.Reader, error) {
	return func(charset string, r io.Reader) (io.Reader, error) {
		bs, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		s, err := decode(charset, bs)
		if err != nil {
			return nil, err
		}

		return strings.NewReader(s), nil
	}
}
