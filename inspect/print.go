package inspect

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/zostay/mailwalk/message"
	"github.com/zostay/mailwalk/message/walker"
)

// Print writes one line per part of msg, in pre-order, holding the part's
// content type. Each text/plain part is followed by its payload and a line
// break.
//
// A payload that fails to decode part way is printed as far as it got and the
// failure is logged.
func (in *Inspector) Print(w io.Writer, msg message.Generic) error {
	var pw walker.PartWalker = func(depth, i int, part message.Part) error {
		ct := part.ContentType()
		if _, err := fmt.Fprintln(w, ct); err != nil {
			return err
		}

		if ct != PlainText {
			return nil
		}

		if part.IsMultipart() {
			return ErrContainerTextPlain
		}

		text, err := part.PayloadText()
		if err != nil {
			in.logger.Warn("unable to decode the body of a part",
				slog.Int("depth", depth),
				slog.Int("index", i),
				slog.Any("error", err))
		}

		_, err = fmt.Fprintln(w, text)
		return err
	}

	return pw.Walk(msg)
}
