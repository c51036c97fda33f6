// Package walk processes a message tree recursively, giving each part's
// callback the chain of parts leading down to it.
package walk

import (
	"errors"

	"github.com/zostay/mailwalk/message"
)

var (
	// SkipChildren may be returned by a Processor to keep AndProcess from
	// descending into the sub-parts of the part just processed. It is not
	// returned by AndProcess.
	SkipChildren = errors.New("skip the sub-parts of this part")

	// Stop may be returned by a Processor to end the walk early. It is not
	// returned by AndProcess.
	Stop = errors.New("stop processing")
)

// Processor is a callback that can be passed to the AndProcess() function to
// do any kind of generic processing of a message and its sub-parts.
//
// The Processor is given a part to process and the ancestry of the part. If
// len(parents) is zero, then this is the top-level part (i.e., the top-level
// part that AndProcess() was called upon, which might not be the root message).
// The parents slice is only valid during the call.
//
// The Processor may return an error to cause AndProcess() to terminate
// immediately and return that error.
type Processor func(part message.Part, parents []message.Part) error

// AndProcess will walk the message parts tree of a message (or a part of a
// message) and call the given Processor function for each part found, parents
// before children. It will terminate once all parts have been processed and
// return nil. If the Processor function returns an error, it will terminate
// early and return that error, unless the error is Stop or SkipChildren.
func AndProcess(
	processor Processor,
	msg message.Part,
) error {
	parents := make([]message.Part, 0, 10)
	err := andProcess(processor, msg, parents)
	if errors.Is(err, Stop) {
		return nil
	}
	return err
}

func andProcess(
	processor Processor,
	part message.Part,
	parents []message.Part,
) error {
	err := processor(part, parents)
	if errors.Is(err, SkipChildren) {
		return nil
	} else if err != nil {
		return err
	}

	if part.IsMultipart() {
		parents = append(parents, part)
		for _, subPart := range part.GetParts() {
			err := andProcess(processor, subPart, parents)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
