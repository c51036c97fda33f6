package header

import (
	"strings"

	"github.com/zostay/mailwalk/message/header/field"
)

// Base is the low-level storage of a header: the line break in use and the
// fields in the order they appeared.
type Base struct {
	lbr    Break
	fields []*field.Field
}

// Break returns the line break used to separate header fields and terminate the
// header. It defaults to LF.
func (h *Base) Break() Break {
	if h.lbr == Meh {
		return LF
	}
	return h.lbr
}

// Len returns the number of fields in the header.
func (h *Base) Len() int {
	return len(h.fields)
}

// GetField returns the nth field or nil if n is out of range.
func (h *Base) GetField(n int) *field.Field {
	if n < 0 || n >= len(h.fields) {
		return nil
	}
	return h.fields[n]
}

// GetFieldNamed returns the nth (0-indexed) field with the given name or nil if
// there is no such field.
func (h *Base) GetFieldNamed(name string, n int) *field.Field {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			if n == 0 {
				return f
			}
			n--
		}
	}
	return nil
}

// GetAllFieldsNamed returns all the fields with the given name.
func (h *Base) GetAllFieldsNamed(name string) []*field.Field {
	fs := make([]*field.Field, 0, 10)
	for _, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			fs = append(fs, f)
		}
	}
	return fs
}

// GetIndexesNamed returns the indexes of fields with the given name.
func (h *Base) GetIndexesNamed(name string) []int {
	is := make([]int, 0, 10)
	for i, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			is = append(is, i)
		}
	}
	return is
}

// ListFields returns a copy of the list of fields in the header.
func (h *Base) ListFields() []*field.Field {
	fs := make([]*field.Field, len(h.fields))
	copy(fs, h.fields)
	return fs
}

// String returns the header as it was read, terminated by a blank line.
func (h *Base) String() string {
	var buf strings.Builder
	for _, f := range h.fields {
		buf.WriteString(f.String())
		buf.WriteString(h.Break().String())
	}
	buf.WriteString(h.Break().String())
	return buf.String()
}
