// Package inspect loads a single email message and reports on its structure:
// the content type of every part and the text of the plain text parts.
package inspect

import (
	"bytes"
	"io"
	"log/slog"
	"os"

	"github.com/zostay/mailwalk/message"
)

const (
	// DefaultFilename is the file read when no path is given.
	DefaultFilename = "en-mail"

	// Stdin is the path that refers to standard input.
	Stdin = "-"

	// PlainText is the content type whose payload is printed.
	PlainText = "text/plain"
)

// Inspector loads, parses, and reports on messages.
type Inspector struct {
	logger   *slog.Logger
	maxDepth int
	stdin    io.Reader
}

// Option configures an Inspector.
type Option func(in *Inspector)

// WithLogger sets the logger parse problems are reported to. Nothing is logged
// by default.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Inspector) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// WithMaxDepth limits how deeply nested parts are broken up. A negative value
// removes the limit, which is the default.
func WithMaxDepth(depth int) Option {
	return func(in *Inspector) { in.maxDepth = depth }
}

// WithStdin sets the reader used for the Stdin path. It is os.Stdin by
// default.
func WithStdin(r io.Reader) Option {
	return func(in *Inspector) { in.stdin = r }
}

// New returns an Inspector with the given options applied.
func New(opts ...Option) *Inspector {
	in := &Inspector{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDepth: -1,
		stdin:    os.Stdin,
	}

	for _, opt := range opts {
		opt(in)
	}

	return in
}

// Load reads the whole message at path. The path Stdin reads standard input
// instead. Any failure is returned as a *LoadError.
func (in *Inspector) Load(path string) ([]byte, error) {
	if path == Stdin {
		raw, err := io.ReadAll(in.stdin)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		return raw, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	in.logger.Debug("loaded message", slog.String("path", path), slog.Int("bytes", len(raw)))

	return raw, nil
}

// Parse turns the raw message into a tree of parts with the
// Content-transfer-encoding of every leaf decoded. Failure is returned as a
// *ParseError.
func (in *Inspector) Parse(raw []byte) (message.Generic, error) {
	// the whole message is in memory, so no part can be larger than this
	limit := len(raw) + message.DefaultChunkSize

	msg, err := message.Parse(bytes.NewReader(raw),
		message.DecodeTransferEncoding(),
		message.WithMaxHeaderLength(limit),
		message.WithMaxPartLength(limit),
		message.WithMaxDepth(in.maxDepth),
		message.WithLogger(in.logger),
	)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	return msg, nil
}

// Run loads the message at path, parses it, and prints its structure to w.
func (in *Inspector) Run(w io.Writer, path string) error {
	raw, err := in.Load(path)
	if err != nil {
		return err
	}

	msg, err := in.Parse(raw)
	if err != nil {
		return err
	}

	return in.Print(w, msg)
}
