package transfer

import (
	"encoding/base64"
	"io"
	"mime/quotedprintable"
)

// NewAsIsDecoder returns an io.Reader that reads bytes as-is.
func NewAsIsDecoder(r io.Reader) io.Reader {
	return r
}

// NewQuotedPrintableDecoder will read bytes from the given io.Reader and return
// them in the returned io.Reader after decoding them from quoted-printable
// format.
func NewQuotedPrintableDecoder(r io.Reader) io.Reader {
	return quotedprintable.NewReader(r)
}

// NewBase64Decoder will translate all bytes read from the given io.Reader as
// base64 and return the binary data to the returned io.Reader. Whitespace
// anywhere in the input is ignored.
func NewBase64Decoder(r io.Reader) io.Reader {
	return base64.NewDecoder(base64.StdEncoding, &spaceFilter{r})
}

// spaceFilter drops spaces and tabs, which show up in base64 bodies more often
// than they should and which encoding/base64 refuses.
type spaceFilter struct {
	r io.Reader
}

func (f *spaceFilter) Read(p []byte) (int, error) {
	for {
		n, err := f.r.Read(p)
		kept := 0
		for _, c := range p[:n] {
			if c != ' ' && c != '\t' {
				p[kept] = c
				kept++
			}
		}

		if kept > 0 || err != nil || n == 0 {
			return kept, err
		}
	}
}
