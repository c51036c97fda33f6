package message

import (
	"bytes"
	"io"

	"github.com/zostay/mailwalk/message/header"
)

// Opaque is a leaf of the message tree. It is simply a header and a message
// body, very similar to the net/mail message implementation.
type Opaque struct {
	// Header will contain the header of the part.
	header.Header

	// body is nil when the part has no body at all.
	body io.Reader

	// encoded is true unless the parser was asked to decode the
	// Content-transfer-encoding.
	encoded bool

	// defaultType is the content type used when the header has none.
	defaultType string

	// payload caches the body once PayloadText() has read it.
	payload    []byte
	payloadErr error
	loaded     bool
}

// NewOpaque returns a leaf with the given header and body. The body is taken
// to be already decoded.
func NewOpaque(h *header.Header, body []byte) *Opaque {
	m := &Opaque{Header: *h}
	if body != nil {
		m.body = bytes.NewReader(body)
	}
	return m
}

// IsMultipart always returns false.
func (m *Opaque) IsMultipart() bool {
	return false
}

// IsEncoded returns true if the Content-transfer-encoding has not been decoded
// for the bytes returned by the associated io.Reader.
//
// A false value does not mean any actual change to the bytes was made. A
// Content-transfer-encoding of "8bit" decodes to the same bytes, for example.
func (m *Opaque) IsEncoded() bool {
	return m.encoded
}

// GetHeader returns the header for the message.
func (m *Opaque) GetHeader() *header.Header {
	return &m.Header
}

// ContentType returns the media type of this part.
func (m *Opaque) ContentType() string {
	return resolveContentType(&m.Header, m.defaultType)
}

// GetReader returns the reader containing the body of the message. The reader
// may only be consumed once, unless PayloadText() has already been called, in
// which case a fresh reader over the loaded payload is returned every time.
func (m *Opaque) GetReader() io.Reader {
	if m.loaded {
		return bytes.NewReader(m.payload)
	}
	return m.body
}

// PayloadText reads the whole body and returns it as a string. The result is
// kept, so calling it again returns the same text without reading anything.
//
// If reading fails part way, for example on a corrupt base64 body, the text
// read up to that point is returned with the error.
func (m *Opaque) PayloadText() (string, error) {
	if !m.loaded {
		if m.body != nil {
			m.payload, m.payloadErr = io.ReadAll(m.body)
		}
		m.loaded = true
	}
	return string(m.payload), m.payloadErr
}

// GetParts always returns nil.
func (m *Opaque) GetParts() []Part {
	return nil
}
