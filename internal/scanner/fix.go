// Package scanner holds a small adapter for bufio.SplitFunc used by the
// multipart boundary splitter.
package scanner

import (
	"bufio"
	"errors"
)

// ErrContinue is a special SplitFunc signal that tells the adapter to run the
// split function again right away instead of returning to the bufio.Scanner.
// It lets a split function switch modes without producing a token.
var ErrContinue = errors.New("split func continue")

// MakeSplitFuncExitByAdvance wraps a bufio.SplitFunc so that it may consume
// input without returning a token and still keep scanning.
//
// A plain bufio.SplitFunc ends the scan whenever it returns a nil token at
// EOF, which forces every split function that skips over uninteresting input
// to carry its own inner loop. The returned function provides that loop. It
// returns to the scanner when:
//
//   - a token is produced,
//   - an error other than ErrContinue is produced,
//   - the split function asks for more data (advance == 0), or
//   - all the data given has been consumed.
//
// Advances made on each pass are accumulated so the scanner moves forward by
// the correct amount.
func MakeSplitFuncExitByAdvance(split bufio.SplitFunc) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		totalAdvance := 0
		for {
			advance, token, err := split(data, atEOF)

			continuing := errors.Is(err, ErrContinue)
			if !continuing && (token != nil || advance == 0 || len(data)-advance <= 0 || err != nil) {
				return totalAdvance + advance, token, err
			}

			data = data[advance:]
			totalAdvance += advance
		}
	}
}
