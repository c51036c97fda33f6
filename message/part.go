package message

import (
	"errors"
	"io"
	"strings"

	"github.com/zostay/mailwalk/message/header"
	"github.com/zostay/mailwalk/message/header/param"
)

// Media types the parser gives special meaning to.
const (
	// DefaultContentType is the content type of a part that does not declare
	// one or that declares one that cannot be understood.
	DefaultContentType = "text/plain"

	// DigestContentType is the default content type of the parts of a
	// multipart/digest.
	DigestContentType = "message/rfc822"
)

// ErrMultipart is returned by PayloadText when called on a part with
// sub-parts.
var ErrMultipart = errors.New("a multipart part has no payload text")

// Part is an interface define the parts of a message. Each Part is either a
// branch or a leaf.
//
// A branch Part is one that has sub-parts. In this case, the IsMultipart()
// method will return true. The GetParts() method returns the sub-parts, while
// GetReader() returns nil and PayloadText() fails with ErrMultipart.
//
// A leaf Part is one that contains content. In this case, the IsMultipart()
// method will return false. The GetParts() method returns nil, while
// GetReader() and PayloadText() provide the content.
//
// It is possible for a leaf to have a multipart/* content type. This happens
// when the parser could not or was told not to break up the part.
type Part interface {
	// IsMultipart will return true if this Part is a branch with nested
	// parts.
	IsMultipart() bool

	// IsEncoded will return true if the bytes of the body are still in their
	// Content-transfer-encoding. It always returns false for a branch.
	IsEncoded() bool

	// GetHeader is available on all Part objects.
	GetHeader() *header.Header

	// ContentType returns the lowercase media type of the part, without
	// parameters. A part without a usable Content-type reports the default
	// for its position in the message, usually DefaultContentType.
	ContentType() string

	// GetReader provides the body of a leaf. It returns nil for a branch and
	// may return nil for a leaf with no body.
	GetReader() io.Reader

	// PayloadText reads the complete body of a leaf and returns it as a
	// string. It fails with ErrMultipart on a branch.
	PayloadText() (string, error)

	// GetParts provides the sub-parts of a branch. It returns nil for a leaf.
	GetParts() []Part
}

// Generic is just an alias for Part, which is intended to convey
// additional semantics:
//
// 1. The message returned is not necessarily a sub-part of a message.
//
// 2. The returned message is guaranteed to either be a *Opaque or a
// *Multipart. Therefore, it is safe to use this in a type-switch
// and only look for either of those two objects.
type Generic = Part

// contentValue reads the Content-type of the header leniently: the first
// field wins if there are several. It returns nil if there's no usable field.
func contentValue(h *header.Header) *param.Value {
	body, err := h.Get(header.ContentType)
	if err != nil && !errors.Is(err, header.ErrManyFields) {
		return nil
	}

	pv, err := param.Parse(body)
	if err != nil {
		return nil
	}

	return pv
}

// resolveContentType returns the media type from the header or the given
// default when the header has no media type of the form type/subtype.
func resolveContentType(h *header.Header, def string) string {
	if def == "" {
		def = DefaultContentType
	}

	pv := contentValue(h)
	if pv == nil {
		return def
	}

	mt := pv.MediaType()
	if strings.Count(mt, "/") != 1 || pv.Type() == "" || pv.Subtype() == "" {
		return def
	}

	return mt
}
