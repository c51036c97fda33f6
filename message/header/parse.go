package header

import (
	"errors"

	"github.com/zostay/mailwalk/message/header/field"
)

// Parse will parse the given slice of bytes into an email header using the
// given line break string. It will assume the entire string given represents
// the header to be parsed.
//
// If the header starts with junk, a usable Header is returned along with a
// *field.BadStartError.
func Parse(m []byte, lb Break) (*Header, error) {
	lines, err := field.ParseLines(m, lb.Bytes())

	var badStartErr *field.BadStartError // recoverable
	var finalErr error
	if errors.As(err, &badStartErr) {
		finalErr = badStartErr
	} else if err != nil {
		return nil, err
	}

	fields := make([]*field.Field, len(lines))
	for i, line := range lines {
		fields[i] = field.Parse(line, lb.Bytes())
	}

	h := &Header{
		Base: Base{
			lbr:    lb,
			fields: fields,
		},
	}

	return h, finalErr
}

// New returns a Header holding the given fields, in order, using the given line
// break.
func New(lb Break, fields ...*field.Field) *Header {
	fs := make([]*field.Field, len(fields))
	copy(fs, fields)
	return &Header{Base: Base{lbr: lb, fields: fs}}
}
