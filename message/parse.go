package message

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/zostay/mailwalk/internal/scanner"
	"github.com/zostay/mailwalk/message/header"
	"github.com/zostay/mailwalk/message/header/field"
	"github.com/zostay/mailwalk/message/transfer"
)

// Constants related to Parse() options.
const (
	// DefaultMaxMultipartDepth is the default depth the parser will recurse
	// into a message.
	DefaultMaxMultipartDepth = 10

	// DefaultChunkSize the default size of chunks to read from the input while
	// splitting the message into header and body. Defaults to 16K, though this
	// could change at any time.
	DefaultChunkSize = 16_384

	// DefaultMaxHeaderLength is the default maximum byte length to scan before
	// giving up on finding the end of the header.
	DefaultMaxHeaderLength = bufio.MaxScanTokenSize

	// DefaultMaxPartLength is the default maximum byte length to scan before
	// given up on scanning a message part at any given level.
	DefaultMaxPartLength = bufio.MaxScanTokenSize
)

// Errors that occur during parsing. Both are fatal. Problems with the
// structure of a message never are: the part in question is kept as an
// *Opaque instead.
var (
	// ErrLargeHeader is returned by Parse when the header is longer than the
	// configured WithMaxHeaderLength option (or the default,
	// DefaultMaxHeaderLength).
	ErrLargeHeader = errors.New("the header exceeds the maximum parse length")

	// ErrLargePart is returned by Parse when a part is longer than the
	// configured WithMaxPartLength option (or the default,
	// DefaultMaxPartLength).
	ErrLargePart = errors.New("a message part exceeds the maximum parse length")
)

var splits = [][]byte{
	[]byte("\x0d\x0a\x0d\x0a"), // \r\n\r\n
	[]byte("\x0a\x0d\x0a\x0d"), // \n\r\n\r, extremely unlikely, possibly never
	[]byte("\x0a\x0a"),         // \n\n
	[]byte("\x0d\x0d"),         // \r\r
}

type parser struct {
	maxHeaderLen int
	maxPartLen   int
	maxDepth     int
	chunkSize    int
	decode       bool
	logger       *slog.Logger
}

func (pr *parser) clone() *parser {
	p := *pr
	return &p
}

var defaultParser = &parser{
	maxHeaderLen: DefaultMaxHeaderLength,
	maxPartLen:   DefaultMaxPartLength,
	maxDepth:     DefaultMaxMultipartDepth,
	chunkSize:    DefaultChunkSize,
	decode:       false,
	logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
}

// ParseOption refers to options that may be passed to the Parse function to
// modify how the parser works.
type ParseOption func(pr *parser)

// WithMaxHeaderLength is a ParseOption that sets the maximum size the buffer is
// allowed to reach before parsing exits with an ErrLargeHeader error. Setting
// this to a value less than or equal to 0 will result in there being no
// maximum length. The default value is DefaultMaxHeaderLength.
func WithMaxHeaderLength(n int) ParseOption {
	return func(pr *parser) { pr.maxHeaderLen = n }
}

// WithMaxPartLength is a ParseOption that sets the maximum size the buffer is
// allowed to reach while scanning for message parts at any level. The parts are
// parsed out at each level of depth separately, so this must be large enough to
// accommodate the largest part at the top level being parsed. If the part gets
// too large, Parse will fail with an ErrLargePart error. A value less than or
// equal to 0 removes the limit.
func WithMaxPartLength(n int) ParseOption {
	return func(pr *parser) { pr.maxPartLen = n }
}

// DecodeTransferEncoding is a ParseOption that enables the decoding of
// Content-transfer-encoding. Without it, leaves return the body bytes exactly
// as they appear in the message.
func DecodeTransferEncoding() ParseOption {
	return func(pr *parser) { pr.decode = true }
}

// WithChunkSize is a ParseOption that controls how many bytes to read at a time
// while parsing an email message. The default chunk size is DefaultChunkSize.
func WithChunkSize(chunkSize int) ParseOption {
	return func(pr *parser) { pr.chunkSize = chunkSize }
}

// WithMaxDepth is a ParseOption that controls how deep the parser will go in
// recursively parsing a multipart message. This is set to
// DefaultMaxMultipartDepth by default. Parts at the maximum depth are left as
// *Opaque.
func WithMaxDepth(maxDepth int) ParseOption {
	return func(pr *parser) { pr.maxDepth = maxDepth }
}

// WithoutMultipart is a ParseOption that will not allow parsing of any
// multipart messages. The message returned from Parse() will always be *Opaque.
func WithoutMultipart() ParseOption {
	return func(pr *parser) { pr.maxDepth = 0 }
}

// WithoutRecursion is a ParseOption that will only allow a single level of
// multipart parsing.
func WithoutRecursion() ParseOption {
	return func(pr *parser) { pr.maxDepth = 1 }
}

// WithUnlimitedRecursion is a ParseOption that will allow the parser to parse
// sub-parts of any depth.
func WithUnlimitedRecursion() ParseOption {
	return func(pr *parser) { pr.maxDepth = -1 }
}

// WithLogger is a ParseOption that sets the logger the parser reports
// malformed input to. Nothing is logged by default.
func WithLogger(logger *slog.Logger) ParseOption {
	return func(pr *parser) {
		if logger != nil {
			pr.logger = logger
		}
	}
}

// searchForSplit looks for a header/body split. Returns -1, nil if none is
// found. If the header/body split is found, it returns the location of the
// split (including the split newlines) and the line break to use with the
// header as a slice of bytes.
func searchForSplit(buf []byte, atStart bool) (pos int, crlf []byte) {
	if atStart {
		// an empty header is nothing but the line break ending it
		for _, s := range splits {
			if bytes.HasPrefix(buf, s[0:len(s)/2]) {
				pos = len(s) / 2
				crlf = s[0 : len(s)/2]
				return
			}
		}
	}

	pos = -1
	for _, s := range splits {
		if testPos := bytes.Index(buf, s); testPos > -1 {
			pos = testPos + len(s)
			crlf = s[0 : len(s)/2]
			return
		}
	}
	return
}

// splitHeadFromBody reads the header off the front of the given input. It
// returns the header bytes, the line break the message is using, and a reader
// for the body, which is nil if the input has no body.
func (pr *parser) splitHeadFromBody(r io.Reader) ([]byte, []byte, io.Reader, error) {
	p := make([]byte, pr.chunkSize)
	buf := &bytes.Buffer{}
	searched := 0
	for {
		n, err := r.Read(p)

		if pr.maxHeaderLen > 0 && n+buf.Len() > pr.maxHeaderLen {
			return nil, nil, nil, ErrLargeHeader
		}

		isEOF := false
		if errors.Is(err, io.EOF) {
			isEOF = true
		} else if err != nil {
			return nil, nil, nil, err
		}

		buf.Write(p[:n])

		pos, crlf := searchForSplit(buf.Bytes()[searched:], searched == 0)
		if pos >= 0 {
			pos += searched
			hdr := make([]byte, pos)
			copy(hdr, buf.Next(pos))

			var body io.Reader
			if _, isBytesReader := r.(*bytes.Reader); isBytesReader {
				// Parts of a multipart message always arrive this way. Pull
				// the rest in now since it's in memory already.
				if _, err := buf.ReadFrom(r); err != nil {
					return nil, nil, nil, err
				}
				body = bytes.NewReader(buf.Bytes())
			} else {
				// Leave the rest of the original input unread for now.
				body = io.MultiReader(bytes.NewReader(buf.Bytes()), r)
			}
			return hdr, crlf, body, nil
		}

		// No split found and EOF? We'll process as if the entire message is
		// just header.
		if isEOF {
			break
		}

		// The last 3 bytes might be the prefix to the split point
		searched = buf.Len() - 3
		if searched < 0 {
			searched = 0
		}
	}

	return buf.Bytes(), header.Detect(buf.Bytes()).Bytes(), nil, nil
}

// looksLikeHeader returns true if the header bytes given start with something
// that could be a header field, or with a line break for an empty header.
func looksLikeHeader(hdr []byte) bool {
	if len(hdr) == 0 || hdr[0] == '\r' || hdr[0] == '\n' {
		return true
	}

	colon := bytes.IndexByte(hdr, ':')
	if colon <= 0 {
		return false
	}

	for _, c := range hdr[:colon] {
		if c <= ' ' || c > '~' {
			return false
		}
	}

	return true
}

// parseToOpaque turns a reader into an Opaque.
func (pr *parser) parseToOpaque(r io.Reader, subpart bool, defaultType string) (*Opaque, error) {
	hdr, crlf, body, err := pr.splitHeadFromBody(r)
	if err != nil {
		return nil, err
	}

	// mbox envelope line
	if !subpart && bytes.HasPrefix(hdr, []byte("From ")) {
		if ix := bytes.Index(hdr, crlf); ix >= 0 {
			pr.logger.Debug("skipped mbox From_ line",
				slog.String("line", string(hdr[:ix])))
			hdr = hdr[ix+len(crlf):]
		}
	}

	if !looksLikeHeader(hdr) {
		pr.logger.Warn("part does not start with a header, treating all of it as body")
		if body != nil {
			body = io.MultiReader(bytes.NewReader(hdr), body)
		} else {
			body = bytes.NewReader(hdr)
		}
		hdr = nil
	}

	head, err := header.Parse(hdr, header.Break(crlf))
	var badStartErr *field.BadStartError
	if errors.As(err, &badStartErr) {
		pr.logger.Warn("skipped text at the start of the header",
			slog.Int("bytes", len(badStartErr.BadStart)))
	} else if err != nil {
		return nil, err
	}

	if pr.decode && body != nil {
		body = transfer.ApplyTransferDecoding(head, body)
	}

	return &Opaque{
		Header:      *head,
		body:        body,
		encoded:     !pr.decode,
		defaultType: defaultType,
	}, nil
}

// Parse will consume input from the given reader and return a Generic message
// containing the parsed content. Parse proceeds in two or three phases.
//
// During the first phase, the given io.Reader will be read in chunks at a time,
// as defined by the WithChunkSize() option (or by the default,
// DefaultChunkSize). Each chunk will be checked for a double line break of some
// kind (e.g., "\r\n\r\n" or "\n\n" are the most common). Once found, that line
// break is used to determine what line break the message will use for breaking
// up the header into fields. If the header grows past WithMaxHeaderLength()
// first, Parse fails with ErrLargeHeader.
//
// During the second phase, the *Opaque created by the first phase may be
// turned into a *Multipart. A multipart/* part is scanned for the boundary
// set on its Content-type and each part found goes through both phases
// itself. A message/rfc822 part has its body parsed as a message. This
// continues until the deepest part is parsed or the WithMaxDepth() limit is
// reached. A part larger than WithMaxPartLength() fails with ErrLargePart.
//
// Structural problems do not fail the parse. A multipart/* part with no
// boundary parameter, or whose body never uses its boundary, stays an
// *Opaque. A missing final boundary ends the last part at the end of the
// input. These problems are reported to the logger set with WithLogger().
//
// If the DecodeTransferEncoding() option is passed, a third phase is also
// performed: the leaves have any Content-transfer-encoding decoded as they
// are read.
//
// The original io.Reader may not be read completely when Parse returns. It
// will be once all the leaves have been read.
func Parse(r io.Reader, opts ...ParseOption) (Generic, error) {
	pr := defaultParser.clone()
	for _, opt := range opts {
		opt(pr)
	}

	msg, err := pr.parseToOpaque(r, false, "")
	if err != nil {
		return nil, err
	}

	return pr.parse(msg, 0)
}

// parse implements the second phase of Parse.
func (pr *parser) parse(msg *Opaque, depth int) (Generic, error) {
	// we're too deep: stop here and just return the original
	if pr.maxDepth >= 0 && depth >= pr.maxDepth {
		return msg, nil
	}

	mt := msg.ContentType()
	switch {
	case strings.HasPrefix(mt, "multipart/"):
		return pr.parseMultipart(msg, mt, depth)
	case mt == "message/rfc822" || mt == "message/global":
		return pr.parseEmbedded(msg, depth)
	}

	return msg, nil
}

// parseEmbedded parses the body of a message/rfc822 part as a message.
func (pr *parser) parseEmbedded(msg *Opaque, depth int) (Generic, error) {
	if msg.body == nil {
		return msg, nil
	}

	inner, err := pr.parseToOpaque(msg.body, false, "")
	if err != nil {
		return nil, err
	}

	part, err := pr.parse(inner, depth+1)
	if err != nil {
		return nil, err
	}

	return &Multipart{
		Header:      msg.Header,
		defaultType: msg.defaultType,
		parts:       []Part{part},
	}, nil
}

// parseMultipart splits up a multipart/* part.
func (pr *parser) parseMultipart(msg *Opaque, mt string, depth int) (Generic, error) {
	log := pr.logger.With(slog.String("content-type", mt), slog.Int("depth", depth))

	pv := contentValue(&msg.Header)
	if pv == nil || pv.Boundary() == "" {
		log.Warn("multipart part has no boundary parameter, keeping it as a leaf")
		return msg, nil
	}

	if msg.body == nil {
		log.Warn("multipart part has no body, keeping it as a leaf")
		return msg, nil
	}

	// A delimiter is --boundary on a line of its own, and the close delimiter
	// is --boundary--. Either may be followed by spaces or tabs before the
	// line break.
	//
	// The line break before the first delimiter belongs to the preamble. The
	// line break after the close delimiter belongs to the epilogue. The line
	// breaks around the other delimiters belong to the delimiter.
	br := msg.Break().Bytes()
	if len(br) == 0 {
		br = header.LF.Bytes()
	}
	dash := []byte(fmt.Sprintf("--%s", pv.Boundary()))

	const (
		modeParts = iota
		modeTail
		modeEpilogue
	)

	// Everything scanned is kept so the part can be put back together if it
	// turns out not to be multipart after all.
	raw := &bytes.Buffer{}

	// This scanner split function splits on any email message boundary. It
	// returns the parts as tokens, but the preamble and epilogue, it captures
	// itself.
	sc := bufio.NewScanner(io.TeeReader(msg.body, raw))
	maxPartLen := pr.maxPartLen
	if maxPartLen <= 0 {
		maxPartLen = math.MaxInt32
	}
	sc.Buffer(make([]byte, pr.chunkSize), maxPartLen)
	var preamble, epilogue []byte
	mode := modeParts
	awaitingPreamble := true
	sc.Split(
		scanner.MakeSplitFuncExitByAdvance(
			func(data []byte, atEOF bool) (advance int, token []byte, err error) {
				switch mode {
				case modeParts:
					d, more := findDelimiter(data, atEOF, dash, br)
					if more {
						// not enough data to know yet
						return 0, nil, nil
					}

					if d.start < 0 {
						if atEOF {
							mode = modeTail
							err = scanner.ErrContinue
						}
						// else, there may yet be more boundaries coming
						return
					}

					// data[:0] keeps an empty part distinct from no part
					before := data[:0]
					if d.start > 0 {
						before = data[:d.start-len(br)]
					}

					if awaitingPreamble {
						// first delimiter: the input so far is the preamble
						if d.start > 0 {
							preamble = bytes.Clone(before)
						}
						awaitingPreamble = false
					} else {
						token = before
					}

					advance = d.end
					if d.closing {
						epilogue = []byte{}
						mode = modeEpilogue
					} else if bytes.HasPrefix(data[d.end:], br) {
						advance += len(br)
					}

				case modeTail:
					// we know atEOF is true here and the close delimiter is
					// missing, so the rest is the last part
					if !awaitingPreamble {
						token = bytes.TrimSuffix(data, br)
					}
					advance = len(data)
					err = bufio.ErrFinalToken

				case modeEpilogue:
					epilogue = append(epilogue, data...)
					advance = len(data)
					if atEOF {
						err = bufio.ErrFinalToken
					}

				default:
					panic("unexpected parser state")
				}
				return
			},
		),
	)

	tokens := make([][]byte, 0, 10)
	for sc.Scan() {
		tokens = append(tokens, bytes.Clone(sc.Bytes()))
	}

	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, ErrLargePart
		}
		return nil, err
	}

	if awaitingPreamble {
		log.Warn("multipart body never uses its boundary, keeping it as a leaf")
		return &Opaque{
			Header:      msg.Header,
			body:        bytes.NewReader(raw.Bytes()),
			encoded:     msg.encoded,
			defaultType: msg.defaultType,
		}, nil
	}

	if epilogue == nil {
		log.Warn("multipart body is missing its final boundary")
	}

	childType := ""
	if mt == "multipart/digest" {
		childType = DigestContentType
	}

	parts := make([]Part, 0, len(tokens))
	for _, token := range tokens {
		opMsg, err := pr.parseToOpaque(bytes.NewReader(token), true, childType)
		if err != nil {
			return nil, err
		}

		part, err := pr.parse(opMsg, depth+1)
		if err != nil {
			return nil, err
		}

		parts = append(parts, part)
	}

	return &Multipart{
		Header:      msg.Header,
		defaultType: msg.defaultType,
		preamble:    preamble,
		epilogue:    epilogue,
		parts:       parts,
	}, nil
}

// delimiter locates a delimiter line within a multipart body.
type delimiter struct {
	start   int // offset of the line, -1 when there is none
	end     int // offset just past the delimiter and its padding
	closing bool
}

// findDelimiter looks for the first delimiter line in data. Only offset 0 and
// offsets just after a line break are candidates, so data must begin at the
// start of a line. It returns more when a candidate line is cut off by the end
// of data and atEOF is false.
func findDelimiter(data []byte, atEOF bool, dash, br []byte) (d delimiter, more bool) {
	for p := 0; p <= len(data); {
		if end, closing, ok, wait := matchDelimiter(data[p:], atEOF, dash, br); wait {
			return delimiter{start: -1}, true
		} else if ok {
			return delimiter{start: p, end: p + end, closing: closing}, false
		}

		ix := bytes.Index(data[p:], br)
		if ix < 0 {
			break
		}
		p += ix + len(br)
	}

	return delimiter{start: -1}, false
}

// matchDelimiter checks whether line starts with a delimiter. The end returned
// is the offset just before the line break.
func matchDelimiter(line []byte, atEOF bool, dash, br []byte) (end int, closing, ok, wait bool) {
	if !bytes.HasPrefix(line, dash) {
		wait = !atEOF && len(line) < len(dash) && bytes.HasPrefix(dash, line)
		return
	}

	q := len(dash)
	switch rest := line[q:]; {
	case bytes.HasPrefix(rest, []byte("--")):
		closing = true
		q += 2
	case len(rest) == 1 && rest[0] == '-' && !atEOF:
		wait = true
		return
	}

	for q < len(line) && (line[q] == ' ' || line[q] == '\t') {
		q++
	}

	rest := line[q:]
	switch {
	case len(rest) == 0:
		ok, wait = atEOF, !atEOF
	case bytes.HasPrefix(rest, br):
		ok = true
	case !atEOF && len(rest) < len(br) && bytes.HasPrefix(br, rest):
		wait = true
	}

	return q, closing, ok, wait
}
