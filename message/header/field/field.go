// Package field holds the low-level parsing of individual header fields. A
// Field remembers the exact bytes it was parsed from alongside its unfolded,
// decoded name and body.
package field

import "fmt"

// Field is a single parsed header field. Objects of this type are immutable.
type Field struct {
	name string
	body string
	raw  []byte
}

// New returns a Field with the given name and body and no raw form.
func New(name, body string) *Field {
	return &Field{name: name, body: body}
}

// Name returns the unfolded name of the field.
func (f *Field) Name() string {
	return f.name
}

// Body returns the unfolded body of the field with any RFC 2047 encoded words
// decoded.
func (f *Field) Body() string {
	return f.body
}

// Raw returns the original bytes of the field, folding included, without the
// trailing line break. It returns nil for fields not created by Parse.
func (f *Field) Raw() []byte {
	return f.raw
}

// String returns the original field text if there is one. Otherwise, it
// returns the name and body joined with a colon.
func (f *Field) String() string {
	if f.raw != nil {
		return string(f.raw)
	}
	return fmt.Sprintf("%s: %s", f.name, f.body)
}
