package field

import (
	"bytes"
)

// BadStartError is returned when the header begins with junk text that does not
// appear to be a header. This text is preserved in the error object.
type BadStartError struct {
	BadStart []byte // the text skipped at the start of header
}

// Error returns the error message.
func (err *BadStartError) Error() string {
	return "header starts with text that does not appear to be a header"
}

// Line represents the unparsed content for a complete header field line.
type Line []byte

// Lines represents the unparsed content for zero or more header field
// lines.
type Lines []Line

// ParseLines splits the given header bytes into field lines, each including
// its continuation lines. The whole input is treated as header.
//
// This does not follow RFC 5322 precisely. A new field starts on any line
// that does not start with a space or tab and contains a colon. Every other
// line continues the previous field. Lines like that appearing before the
// first field are skipped and reported with a *BadStartError, which is
// recoverable: the Lines returned are still usable.
func ParseLines(m, lb []byte) (Lines, error) {
	h := make(Lines, 0, len(m)/80)
	var err *BadStartError
	for _, line := range bytes.SplitAfter(m, lb) {
		// a blank line ends the header
		if len(line) == 0 || bytes.Equal(line, lb) {
			break
		}

		if isSpace(line[0]) || !bytes.Contains(line, []byte(":")) {
			if len(h) == 0 {
				if err != nil {
					err.BadStart = append(err.BadStart, line...)
				} else {
					err = &BadStartError{line}
				}
				continue
			}

			h[len(h)-1] = append(h[len(h)-1], line...)
		} else {
			h = append(h, line)
		}
	}

	if err != nil {
		return h, err
	}
	return h, nil
}

// Parse takes a single header field line, including any folded continuation
// lines, and constructs a Field from it. Encoded words in the body are decoded
// when possible and left as-is when not.
func Parse(f Line, lb []byte) *Field {
	rawField := bytes.TrimRight(f, string(lb))

	off := 1
	ix := bytes.IndexByte(rawField, ':')
	if ix < 0 {
		ix = len(rawField)
		off = 0
	}

	name := string(bytes.TrimSpace(Unfold(rawField[:ix])))
	body := string(bytes.TrimSpace(Unfold(rawField[ix+off:])))
	if decBody, err := Decode(body); err == nil {
		body = decBody
	}

	raw := make([]byte, len(rawField))
	copy(raw, rawField)

	return &Field{name: name, body: body, raw: raw}
}
