package message_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/mailwalk/message"
)

const mixedMsg = `Subject: mixed
Content-Type: multipart/mixed; boundary="zz"

preamble text
--zz
Content-Type: text/plain

plain body
--zz
Content-Type: text/html

<p>html body</p>
--zz--
epilogue text
`

// contentTypes returns the content type of every part in pre-order.
func contentTypes(p message.Part) []string {
	types := []string{p.ContentType()}
	for _, c := range p.GetParts() {
		types = append(types, contentTypes(c)...)
	}
	return types
}

func payload(t *testing.T, p message.Part) string {
	t.Helper()

	s, err := p.PayloadText()
	require.NoError(t, err)
	return s
}

func TestParse_SinglePart(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader("Subject: hi\nContent-Type: text/plain\n\nhello"))
	require.NoError(t, err)

	require.IsType(t, &message.Opaque{}, m)
	assert.False(t, m.IsMultipart())
	assert.Nil(t, m.GetParts())
	assert.Equal(t, "text/plain", m.ContentType())
	assert.Equal(t, "hello", payload(t, m))

	// cached
	assert.Equal(t, "hello", payload(t, m))
	b, err := io.ReadAll(m.GetReader())
	assert.NoError(t, err)
	assert.Equal(t, []byte("hello"), b)
}

func TestParse_Multipart(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader(mixedMsg))
	require.NoError(t, err)

	require.IsType(t, &message.Multipart{}, m)
	assert.True(t, m.IsMultipart())
	assert.Nil(t, m.GetReader())
	assert.Equal(t, []string{"multipart/mixed", "text/plain", "text/html"}, contentTypes(m))

	_, err = m.PayloadText()
	assert.ErrorIs(t, err, message.ErrMultipart)

	parts := m.GetParts()
	require.Len(t, parts, 2)
	assert.Equal(t, "plain body", payload(t, parts[0]))
	assert.Equal(t, "<p>html body</p>", payload(t, parts[1]))

	mm := m.(*message.Multipart)
	assert.Equal(t, []byte("preamble text"), mm.Preamble())
	assert.Equal(t, []byte("\nepilogue text\n"), mm.Epilogue())
}

func TestParse_CRLF(t *testing.T) {
	t.Parallel()

	src := strings.ReplaceAll(mixedMsg, "\n", "\r\n")
	m, err := message.Parse(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"multipart/mixed", "text/plain", "text/html"}, contentTypes(m))
	assert.Equal(t, "plain body", payload(t, m.GetParts()[0]))
	assert.Equal(t, "\r\n", m.GetHeader().Break().String())
}

func TestParse_SmallChunks(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader(mixedMsg), message.WithChunkSize(5))
	require.NoError(t, err)

	assert.Equal(t, []string{"multipart/mixed", "text/plain", "text/html"}, contentTypes(m))
	assert.Equal(t, "<p>html body</p>", payload(t, m.GetParts()[1]))
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		expect string
	}{
		{"absent", "Subject: none\n", "text/plain"},
		{"mixed case", "Content-Type: Text/Plain; charset=us-ascii\n", "text/plain"},
		{"no slash", "Content-Type: text\n", "text/plain"},
		{"two slashes", "Content-Type: text/plain/extra\n", "text/plain"},
		{"bad params", "Content-Type: text/html; ===\n", "text/html"},
		{"first wins", "Content-Type: image/gif\nContent-Type: text/html\n", "image/gif"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			m, err := message.Parse(strings.NewReader(test.header + "\nbody\n"))
			require.NoError(t, err)
			assert.Equal(t, test.expect, m.ContentType())
		})
	}
}

func TestParse_Digest(t *testing.T) {
	t.Parallel()

	const digest = `Content-Type: multipart/digest; boundary=d

--d

Subject: first
Content-Type: text/plain

one
--d
Content-Type: text/plain

explicit
--d--
`

	m, err := message.Parse(strings.NewReader(digest))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"multipart/digest",
		"message/rfc822",
		"text/plain",
		"text/plain",
	}, contentTypes(m))

	embedded := m.GetParts()[0]
	require.True(t, embedded.IsMultipart())
	inner := embedded.GetParts()[0]
	s, err := inner.GetHeader().GetSubject()
	assert.NoError(t, err)
	assert.Equal(t, "first", s)
	assert.Equal(t, "one", payload(t, inner))
}

func TestParse_Embedded(t *testing.T) {
	t.Parallel()

	const embedded = `Content-Type: message/rfc822

Subject: inside
Content-Type: multipart/alternative; boundary=b

--b
Content-Type: text/plain

inner plain
--b--
`

	m, err := message.Parse(strings.NewReader(embedded))
	require.NoError(t, err)

	assert.Equal(t, []string{"message/rfc822", "multipart/alternative", "text/plain"}, contentTypes(m))
	require.Len(t, m.GetParts(), 1)
	assert.Equal(t, "inner plain", payload(t, m.GetParts()[0].GetParts()[0]))
}

func TestParse_NoBoundary(t *testing.T) {
	t.Parallel()

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))

	m, err := message.Parse(
		strings.NewReader("Content-Type: multipart/mixed\n\n--zz\n\nnot split\n--zz--\n"),
		message.WithLogger(logger),
	)
	require.NoError(t, err)

	assert.False(t, m.IsMultipart())
	assert.Equal(t, "multipart/mixed", m.ContentType())
	assert.Equal(t, "--zz\n\nnot split\n--zz--\n", payload(t, m))
	assert.Contains(t, logs.String(), "no boundary parameter")
}

func TestParse_NoOpeningDelimiter(t *testing.T) {
	t.Parallel()

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))

	m, err := message.Parse(
		strings.NewReader("Content-Type: multipart/mixed; boundary=zz\n\njust some text\n"),
		message.WithLogger(logger),
	)
	require.NoError(t, err)

	assert.False(t, m.IsMultipart())
	assert.Equal(t, "multipart/mixed", m.ContentType())
	assert.Equal(t, "just some text\n", payload(t, m))
	assert.Contains(t, logs.String(), "never uses its boundary")
}

func TestParse_NoClosingDelimiter(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader(
		"Content-Type: multipart/mixed; boundary=zz\n\n--zz\n\nfirst\n--zz\nContent-Type: text/html\n\nsecond\n",
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"multipart/mixed", "text/plain", "text/html"}, contentTypes(m))
	assert.Equal(t, "first", payload(t, m.GetParts()[0]))
	assert.Equal(t, "second", payload(t, m.GetParts()[1]))
	assert.Nil(t, m.(*message.Multipart).Epilogue())
}

func TestParse_EmptyParts(t *testing.T) {
	t.Parallel()

	const head = "Content-Type: multipart/mixed; boundary=b\n\n"
	tests := []struct {
		name     string
		body     string
		types    []string
		payloads []string
		epilogue string
	}{
		{
			name:     "last part empty",
			body:     "--b\nContent-Type: text/plain\n\nA\n--b\n--b--\n",
			types:    []string{"multipart/mixed", "text/plain", "text/plain"},
			payloads: []string{"A", ""},
			epilogue: "\n",
		},
		{
			name:     "first part empty",
			body:     "--b\n--b\nContent-Type: text/html\n\nX\n--b--\n",
			types:    []string{"multipart/mixed", "text/plain", "text/html"},
			payloads: []string{"", "X"},
			epilogue: "\n",
		},
		{
			name:     "middle part empty",
			body:     "--b\n\nA\n--b\n--b\n\nC\n--b--",
			types:    []string{"multipart/mixed", "text/plain", "text/plain", "text/plain"},
			payloads: []string{"A", "", "C"},
			epilogue: "",
		},
		{
			name:     "only part empty",
			body:     "--b\n--b--",
			types:    []string{"multipart/mixed", "text/plain"},
			payloads: []string{""},
			epilogue: "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			for _, size := range []int{message.DefaultChunkSize, 3} {
				m, err := message.Parse(strings.NewReader(head+tc.body), message.WithChunkSize(size))
				require.NoError(t, err)

				assert.Equal(t, tc.types, contentTypes(m), "chunk size %d", size)
				payloads := []string{}
				for _, p := range m.GetParts() {
					payloads = append(payloads, payload(t, p))
				}
				assert.Equal(t, tc.payloads, payloads, "chunk size %d", size)

				mp := m.(*message.Multipart)
				assert.Nil(t, mp.Preamble())
				assert.Equal(t, []byte(tc.epilogue), mp.Epilogue())
			}
		})
	}
}

func TestParse_DelimiterPadding(t *testing.T) {
	t.Parallel()

	for _, br := range []string{"\n", "\r\n"} {
		msg := strings.Join([]string{
			"Content-Type: multipart/mixed; boundary=b",
			"",
			"--b  ",
			"Content-Type: text/plain",
			"",
			"hello",
			"--bx",
			"--b-",
			"--b\t",
			"Content-Type: text/html",
			"",
			"<p>hi</p>",
			"--b-- ",
			"epilogue",
			"",
		}, br)

		m, err := message.Parse(strings.NewReader(msg), message.WithChunkSize(3))
		require.NoError(t, err)

		require.True(t, m.IsMultipart(), "break %q", br)
		assert.Equal(t, []string{"multipart/mixed", "text/plain", "text/html"}, contentTypes(m))
		assert.Equal(t, "hello"+br+"--bx"+br+"--b-", payload(t, m.GetParts()[0]))
		assert.Equal(t, "<p>hi</p>", payload(t, m.GetParts()[1]))
		assert.Equal(t, []byte(br+"epilogue"+br), m.(*message.Multipart).Epilogue())
	}
}

func TestParse_TinyBodies(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"", "-", "--", "--z", "\n"} {
		m, err := message.Parse(strings.NewReader(
			"Content-Type: multipart/mixed; boundary=zzzzzzzz\n\n" + body,
		))
		require.NoError(t, err, "body %q", body)
		assert.False(t, m.IsMultipart(), "body %q", body)
	}
}

func TestParse_NoHeader(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader("just words here\n\nand more"))
	require.NoError(t, err)

	assert.Equal(t, 0, m.GetHeader().Len())
	assert.Equal(t, "text/plain", m.ContentType())
	assert.Equal(t, "just words here\n\nand more", payload(t, m))
}

func TestParse_HeaderOnly(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader("Subject: nothing else\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, m.GetHeader().Len())
	assert.Nil(t, m.GetReader())
	assert.Equal(t, "", payload(t, m))
}

func TestParse_EnvelopeLine(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader("From someone@example.com Sat Jan  3 01:05:34 1996\nSubject: mbox\n\nbody"))
	require.NoError(t, err)

	assert.Equal(t, 1, m.GetHeader().Len())
	s, err := m.GetHeader().GetSubject()
	assert.NoError(t, err)
	assert.Equal(t, "mbox", s)
	assert.Equal(t, "body", payload(t, m))
}

func TestParse_DecodeTransferEncoding(t *testing.T) {
	t.Parallel()

	const encoded = `Content-Type: multipart/mixed; boundary=e

--e
Content-Type: text/plain
Content-Transfer-Encoding: BASE64

aGVsbG8gd29y
bGQ=
--e
Content-Type: text/plain
Content-Transfer-Encoding: quoted-printable

caf=C3=A9 soft=
break
--e
Content-Type: text/plain
Content-Transfer-Encoding: x-unknown

as-is
--e--
`

	m, err := message.Parse(strings.NewReader(encoded), message.DecodeTransferEncoding())
	require.NoError(t, err)

	parts := m.GetParts()
	require.Len(t, parts, 3)
	assert.False(t, parts[0].IsEncoded())
	assert.Equal(t, "hello world", payload(t, parts[0]))
	assert.Equal(t, "café softbreak", payload(t, parts[1]))
	assert.Equal(t, "as-is", payload(t, parts[2]))

	m, err = message.Parse(strings.NewReader(encoded))
	require.NoError(t, err)

	parts = m.GetParts()
	assert.True(t, parts[0].IsEncoded())
	assert.Equal(t, "aGVsbG8gd29y\nbGQ=", payload(t, parts[0]))
}

func TestParse_Depth(t *testing.T) {
	t.Parallel()

	const nested = `Content-Type: multipart/mixed; boundary=a

--a
Content-Type: multipart/mixed; boundary=b

--b
Content-Type: text/plain

deep
--b--
--a--
`

	m, err := message.Parse(strings.NewReader(nested), message.WithoutMultipart())
	require.NoError(t, err)
	assert.Equal(t, []string{"multipart/mixed"}, contentTypes(m))
	assert.False(t, m.IsMultipart())

	m, err = message.Parse(strings.NewReader(nested), message.WithoutRecursion())
	require.NoError(t, err)
	assert.Equal(t, []string{"multipart/mixed", "multipart/mixed"}, contentTypes(m))
	assert.False(t, m.GetParts()[0].IsMultipart())

	m, err = message.Parse(strings.NewReader(nested), message.WithMaxDepth(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"multipart/mixed", "multipart/mixed", "text/plain"}, contentTypes(m))

	m, err = message.Parse(strings.NewReader(nested), message.WithUnlimitedRecursion())
	require.NoError(t, err)
	assert.Equal(t, []string{"multipart/mixed", "multipart/mixed", "text/plain"}, contentTypes(m))
}

func TestParse_LargeHeader(t *testing.T) {
	t.Parallel()

	src := "Subject: " + strings.Repeat("x", 200) + "\n\nbody"
	_, err := message.Parse(strings.NewReader(src),
		message.WithMaxHeaderLength(100),
		message.WithChunkSize(10),
	)
	assert.ErrorIs(t, err, message.ErrLargeHeader)
}

func TestParse_LargePart(t *testing.T) {
	t.Parallel()

	src := "Content-Type: multipart/mixed; boundary=zz\n\n--zz\n\n" +
		strings.Repeat("y", 500) + "\n--zz--\n"

	_, err := message.Parse(strings.NewReader(src),
		message.WithMaxPartLength(100),
		message.WithChunkSize(10),
	)
	assert.ErrorIs(t, err, message.ErrLargePart)

	m, err := message.Parse(strings.NewReader(src),
		message.WithMaxPartLength(0),
		message.WithChunkSize(10),
	)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("y", 500), payload(t, m.GetParts()[0]))
}

type failingReader struct{}

var errRead = errors.New("read failed")

func (failingReader) Read([]byte) (int, error) {
	return 0, errRead
}

func TestParse_ReadError(t *testing.T) {
	t.Parallel()

	_, err := message.Parse(failingReader{})
	assert.ErrorIs(t, err, errRead)
}

func TestNewOpaque(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader("Content-Type: text/html\n\n"))
	require.NoError(t, err)

	o := message.NewOpaque(m.GetHeader(), []byte("<i>x</i>"))
	assert.Equal(t, "text/html", o.ContentType())
	assert.False(t, o.IsEncoded())
	assert.Equal(t, "<i>x</i>", payload(t, o))

	mm := message.NewMultipart(m.GetHeader(), o)
	assert.Equal(t, "text/html", mm.ContentType())
	assert.Equal(t, []message.Part{o}, mm.GetParts())
}

func TestParse_JunkHeader(t *testing.T) {
	t.Parallel()

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))

	m, err := message.Parse(
		strings.NewReader("Content-Type: multipart/mixed; boundary=b\n\n--b\nnot a header: really\n\ntext\n--b--\n"),
		message.WithLogger(logger),
	)
	require.NoError(t, err)
	require.Len(t, m.GetParts(), 1)

	part := m.GetParts()[0]
	assert.Equal(t, 0, part.GetHeader().Len())
	assert.Equal(t, "text/plain", part.ContentType())
	assert.Equal(t, "not a header: really\n\ntext", payload(t, part))
	assert.Contains(t, logs.String(), "does not start with a header")
}

func TestParse_EmptyHeader(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader("\nbody text\n"))
	require.NoError(t, err)

	assert.Equal(t, 0, m.GetHeader().Len())
	assert.Equal(t, "body text\n", payload(t, m))
}
