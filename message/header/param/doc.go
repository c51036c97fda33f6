// Package param reads parameterized header fields, such as Content-type and
// Content-disposition, as a primary value plus a map of parameters.
//
// Parsing is lenient: a malformed parameter list leaves the primary value
// usable with no parameters, so a part with a sloppy Content-type still gets
// the right media type.
package param
