package inspect

import (
	"strings"

	"github.com/zostay/mailwalk/message"
	"github.com/zostay/mailwalk/message/walk"
)

// Body returns the text of the message body. A single part message is its own
// body, whatever its type. Otherwise, the body is the first text/plain leaf
// that is not an attachment. Messages embedded in msg are not searched. If no
// such part exists, ErrNoTextBody is returned.
func (in *Inspector) Body(msg message.Generic) (string, error) {
	if !msg.IsMultipart() {
		return msg.PayloadText()
	}

	var body message.Part
	err := walk.AndProcess(
		func(part message.Part, parents []message.Part) error {
			switch {
			case part.IsMultipart():
				if len(parents) > 0 && strings.HasPrefix(part.ContentType(), "message/") {
					return walk.SkipChildren
				}
			case part.ContentType() == PlainText && !isAttachment(part):
				body = part
				return walk.Stop
			}
			return nil
		}, msg)
	if err != nil {
		return "", err
	}

	if body == nil {
		return "", ErrNoTextBody
	}

	return body.PayloadText()
}

func isAttachment(part message.Part) bool {
	p, err := part.GetHeader().GetPresentation()
	return err == nil && strings.EqualFold(p, "attachment")
}
