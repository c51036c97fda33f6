package header

import "bytes"

// Break represents the linebreak used by a message.
type Break string

// The line breaks seen in the wild, in the order Detect prefers them.
const (
	Meh  Break = ""         // not yet known
	CRLF Break = "\x0d\x0a" // \r\n - Network linebreak
	LFCR Break = "\x0a\x0d" // \n\r - for weirdos
	LF   Break = "\x0a"     // \n - Unix/Linux/BSD linebreak
	CR   Break = "\x0d"     // \r - Commodores/old Macs linebreak
)

// Breaks lists the line breaks Detect looks for, in order of preference.
var Breaks = []Break{CRLF, LFCR, LF, CR}

// Detect returns the first line break from Breaks found in the given bytes or
// LF if the bytes contain no line break at all.
func Detect(b []byte) Break {
	for _, lb := range Breaks {
		if bytes.Contains(b, lb.Bytes()) {
			return lb
		}
	}
	return LF
}

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}
