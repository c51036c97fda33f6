// Package message is the heart of this module. It parses email messages into a
// tree of parts, flexibly enough to survive input that is not strictly correct.
//
// Every part is either an *Opaque, a leaf holding a header and a body, or a
// *Multipart, a branch holding a header and its sub-parts. Parse decides
// which based upon the Content-type of each part:
//
//	msg, err := message.Parse(in, message.DecodeTransferEncoding())
//	if err != nil {
//	  panic(err)
//	}
//
//	if msg.IsMultipart() {
//	  for _, part := range msg.GetParts() {
//	    fmt.Println(part.ContentType())
//	  }
//	}
//
// A multipart/* part with a usable boundary becomes a *Multipart with one
// sub-part per body part. A message/rfc822 part becomes a *Multipart with a
// single sub-part: the embedded message. Anything else, including multipart
// parts that cannot be split up, is an *Opaque.
package message
