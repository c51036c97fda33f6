// Package walker visits the parts of a parsed message in pre-order.
package walker

import (
	"github.com/zostay/mailwalk/message"
)

// PartWalker is a function that can be processed for each part of a message.
// It receives the depth of the part (0 for the part Walk was called on), the
// index of the part among its siblings, and the part itself.
type PartWalker func(depth, i int, part message.Part) error

// Walk performs a depth first search for all the parts of a message starting
// with the message itself. Each part is visited before any of its sub-parts
// and sub-parts are visited in the order they appear in the message. It calls
// the PartWalker for each part of the message. If the PartWalker returns an
// error, then processing stops immediately and the error is returned.
func (w PartWalker) Walk(msg message.Generic) error {
	type part struct {
		depth int
		i     int
		part  message.Part
	}

	openStack := make([]part, 0, 10)

	pushStack := func(depth int, msg message.Part) {
		parts := msg.GetParts()
		for i := len(parts) - 1; i >= 0; i-- {
			openStack = append(openStack, part{depth, i, parts[i]})
		}
	}

	popStack := func() part {
		end := len(openStack) - 1
		p := openStack[end]
		openStack = openStack[:end]
		return p
	}

	openStack = append(openStack, part{0, 0, msg})
	for len(openStack) > 0 {
		p := popStack()
		if err := w(p.depth, p.i, p.part); err != nil {
			return err
		}
		pushStack(p.depth+1, p.part)
	}

	return nil
}

// WalkOpaque will call the PartWalker function for each leaf using a depth
// first traversal. It will terminate the walk immediately if the PartWalker
// returns an error and will return the error.
func (w PartWalker) WalkOpaque(msg message.Generic) error {
	var opw PartWalker = func(depth, i int, part message.Part) error {
		if !part.IsMultipart() {
			return w(depth, i, part)
		}
		return nil
	}
	return opw.Walk(msg)
}

// WalkMultipart will call the PartWalker function for each branch using a
// depth first traversal. It will terminate the walk immediately if the
// PartWalker returns an error and will return that error.
func (w PartWalker) WalkMultipart(msg message.Generic) error {
	var mlw PartWalker = func(depth, i int, part message.Part) error {
		if part.IsMultipart() {
			return w(depth, i, part)
		}
		return nil
	}
	return mlw.Walk(msg)
}
