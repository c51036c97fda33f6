package transfer

import (
	"io"

	"github.com/zostay/mailwalk/message/header"
)

const (
	None            = ""                 // bytes will be left as-is
	Bit7            = "7bit"             // bytes will be left as-is
	Bit8            = "8bit"             // bytes will be left as-is
	Binary          = "binary"           // bytes will be left as-is
	QuotedPrintable = "quoted-printable" // bytes will be transformed from quoted-printable to binary data
	Base64          = "base64"           // bytes will be transformed from base64 to binary data
)

// Decoder returns an io.Reader that decodes the data read from the given
// io.Reader.
type Decoder func(io.Reader) io.Reader

// Decoders defines the supported Content-transfer-encodings, keyed by the
// lowercase encoding name. It can be modified to change the global handling
// of transfer encodings.
var Decoders = map[string]Decoder{
	None:            NewAsIsDecoder,
	Bit7:            NewAsIsDecoder,
	Bit8:            NewAsIsDecoder,
	Binary:          NewAsIsDecoder,
	QuotedPrintable: NewQuotedPrintableDecoder,
	Base64:          NewBase64Decoder,
}

// ApplyTransferDecoding returns an io.Reader that will modify incoming bytes
// according to the transfer encoding detected from the given header. (Or the
// io.Reader will leave the bytes as is if there's no transfer encoding or the
// transfer encoding is one that is interpreted as-is).
func ApplyTransferDecoding(h *header.Header, r io.Reader) io.Reader {
	// transfer encodings never apply to "multipart/*" bodies
	ct, err := h.GetContentType()
	if err == nil && ct.Type() == "multipart" {
		return r
	}

	cte, err := h.GetTransferEncoding()
	if err != nil {
		return r
	}

	if dec, hasCode := Decoders[cte]; hasCode {
		return dec(r)
	}

	return r
}
