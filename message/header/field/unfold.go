package field

// Unfold removes the line breaks from a folded header line, leaving the
// whitespace that began each continuation line in place.
func Unfold(f []byte) []byte {
	uf := make([]byte, 0, len(f))
	for _, b := range f {
		if !isCRLF(b) {
			uf = append(uf, b)
		}
	}
	return uf
}

func isCRLF(c byte) bool  { return c == '\r' || c == '\n' }
func isSpace(c byte) bool { return c == ' ' || c == '\t' }
