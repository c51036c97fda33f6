package message

import (
	"io"

	"github.com/zostay/mailwalk/message/header"
)

// Multipart is a branch of the message tree. It is either a multipart/*
// part, holding one Part per body part, or an embedded message/rfc822 part,
// holding the embedded message as its only Part.
type Multipart struct {
	// Header is the header for the message.
	header.Header

	// defaultType is the content type used when the header has none.
	defaultType string

	// preamble and epilogue hold the text before the first boundary and
	// after the final boundary. The preamble is nil if the body started with
	// a boundary. The epilogue is nil if the final boundary was missing.
	preamble, epilogue []byte

	// parts holds this layer's parts
	parts []Part
}

// NewMultipart returns a branch with the given header and parts.
func NewMultipart(h *header.Header, parts ...Part) *Multipart {
	return &Multipart{Header: *h, parts: parts}
}

// IsMultipart always returns true.
func (mm *Multipart) IsMultipart() bool {
	return true
}

// IsEncoded always returns false.
func (mm *Multipart) IsEncoded() bool {
	return false
}

// GetHeader returns the header for the message.
func (mm *Multipart) GetHeader() *header.Header {
	return &mm.Header
}

// ContentType returns the media type of this part.
func (mm *Multipart) ContentType() string {
	return resolveContentType(&mm.Header, mm.defaultType)
}

// GetReader always returns nil.
func (mm *Multipart) GetReader() io.Reader {
	return nil
}

// PayloadText always fails with ErrMultipart.
func (mm *Multipart) PayloadText() (string, error) {
	return "", ErrMultipart
}

// GetParts returns the sub-parts of this message.
func (mm *Multipart) GetParts() []Part {
	return mm.parts
}

// Preamble returns the text found before the first boundary, if any.
func (mm *Multipart) Preamble() []byte {
	return mm.preamble
}

// Epilogue returns the text found after the final boundary, if any.
func (mm *Multipart) Epilogue() []byte {
	return mm.epilogue
}
