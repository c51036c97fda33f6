package inspect

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/mailwalk/message"
	"github.com/zostay/mailwalk/message/header"
	"github.com/zostay/mailwalk/message/walker"
)

// Summary describes the top-level header of a message and how many parts it
// holds.
type Summary struct {
	From    addr.AddressList
	To      addr.AddressList
	Cc      addr.AddressList
	Subject string
	Date    time.Time // zero when missing or unreadable

	MessageID string

	Parts  int // every part, the message itself included
	Leaves int // parts without sub-parts
}

// Summarize builds a Summary of msg. Header fields that are missing are left
// empty. Fields that are present but unreadable are logged and left empty.
func (in *Inspector) Summarize(msg message.Generic) (*Summary, error) {
	h := msg.GetHeader()
	s := &Summary{}

	logSkip := func(name string, err error) {
		if errors.Is(err, header.ErrNoSuchField) {
			return
		}
		in.logger.Warn("unable to read header field",
			slog.String("field", name),
			slog.Any("error", err))
	}

	var err error
	if s.From, err = h.GetFrom(); err != nil {
		logSkip(header.From, err)
	}
	if s.To, err = h.GetTo(); err != nil {
		logSkip(header.To, err)
	}
	if s.Cc, err = h.GetCc(); err != nil {
		logSkip(header.Cc, err)
	}
	if s.Subject, err = h.GetSubject(); err != nil {
		logSkip(header.Subject, err)
	}
	if s.Date, err = h.GetDate(); err != nil {
		s.Date = time.Time{}
		logSkip(header.Date, err)
	}
	if s.MessageID, err = h.GetMessageID(); err != nil {
		logSkip(header.MessageID, err)
	}

	var pw walker.PartWalker = func(_, _ int, part message.Part) error {
		s.Parts++
		if !part.IsMultipart() {
			s.Leaves++
		}
		return nil
	}
	if err := pw.Walk(msg); err != nil {
		return nil, err
	}

	return s, nil
}

// WriteTo writes the summary to w, one field per line. Empty fields are
// skipped.
func (s *Summary) WriteTo(w io.Writer) (int64, error) {
	var buf strings.Builder

	line := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&buf, "%s: %s\n", name, value)
		}
	}

	line(header.From, addressString(s.From))
	line(header.To, addressString(s.To))
	line(header.Cc, addressString(s.Cc))
	line(header.Subject, s.Subject)
	if !s.Date.IsZero() {
		line(header.Date, s.Date.Format(time.RFC1123Z))
	}
	line("Message-ID", s.MessageID)
	line("Parts", fmt.Sprintf("%d (%d leaves)", s.Parts, s.Leaves))

	n, err := io.WriteString(w, buf.String())
	return int64(n), err
}

func addressString(al addr.AddressList) string {
	if len(al) == 0 {
		return ""
	}
	return al.String()
}
