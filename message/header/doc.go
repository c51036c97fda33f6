// Package header provides read access to parsed email message headers. The
// low-level view is a list of field.Field objects in their original order,
// matched by name case-insensitively. The high-level methods on Header parse
// well-known fields into useful values, like media types, dates, and address
// lists, and cache the results.
//
// Parse builds a Header from raw bytes, accepting input that is not strictly
// correct.
package header
