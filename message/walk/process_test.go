package walk_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/mailwalk/message"
	"github.com/zostay/mailwalk/message/walk"
)

const tripMsg = `From: Ada <ada@example.com>
To: Grace <grace@example.com>
Subject: Trip notes
Content-Type: multipart/mixed; boundary="outer"

--outer
Content-Type: multipart/alternative; boundary="inner"

--inner
Content-Type: text/plain

See the notes below.
--inner
Content-Type: text/html

<p>See the notes below.</p>
--inner--
--outer
Content-Type: message/rfc822

Subject: Fwd: itinerary

Flight leaves at nine.
--outer
Content-Type: application/pdf
Content-Disposition: attachment; filename=map.pdf
Content-Transfer-Encoding: base64

JVBERi0xLgo=
--outer--
`

func parseTrip(t *testing.T) message.Part {
	t.Helper()

	m, err := message.Parse(strings.NewReader(tripMsg))
	require.NoError(t, err)
	return m
}

// visit describes one Processor call as "depth content/type".
func visit(part message.Part, parents []message.Part) string {
	return fmt.Sprintf("%d %s", len(parents), part.ContentType())
}

func TestAndProcess(t *testing.T) {
	t.Parallel()

	m := parseTrip(t)

	visits := []string{}
	err := walk.AndProcess(
		func(part message.Part, parents []message.Part) error {
			visits = append(visits, visit(part, parents))
			return nil
		}, m,
	)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"0 multipart/mixed",
		"1 multipart/alternative",
		"2 text/plain",
		"2 text/html",
		"1 message/rfc822",
		"2 text/plain",
		"1 application/pdf",
	}, visits)
}

func TestAndProcess_Parents(t *testing.T) {
	t.Parallel()

	m := parseTrip(t)

	chains := map[string][]string{}
	err := walk.AndProcess(
		func(part message.Part, parents []message.Part) error {
			if part.IsMultipart() {
				return nil
			}

			chain := make([]string, len(parents))
			for i, p := range parents {
				chain[i] = p.ContentType()
			}

			text, err := part.PayloadText()
			require.NoError(t, err)
			chains[text] = chain
			return nil
		}, m,
	)

	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"See the notes below.":        {"multipart/mixed", "multipart/alternative"},
		"<p>See the notes below.</p>": {"multipart/mixed", "multipart/alternative"},
		"Flight leaves at nine.":      {"multipart/mixed", "message/rfc822"},
		"JVBERi0xLgo=":                {"multipart/mixed"},
	}, chains)
}

func TestAndProcess_Branches(t *testing.T) {
	t.Parallel()

	m := parseTrip(t)

	branches := []string{}
	err := walk.AndProcess(
		func(part message.Part, parents []message.Part) error {
			if part.IsMultipart() {
				branches = append(branches, visit(part, parents))
				assert.NotEmpty(t, part.GetParts())
			}
			return nil
		}, m,
	)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"0 multipart/mixed",
		"1 multipart/alternative",
		"1 message/rfc822",
	}, branches)
}

func TestAndProcess_Subtree(t *testing.T) {
	t.Parallel()

	alt := parseTrip(t).GetParts()[0]
	require.Equal(t, "multipart/alternative", alt.ContentType())

	visits := []string{}
	err := walk.AndProcess(
		func(part message.Part, parents []message.Part) error {
			visits = append(visits, visit(part, parents))
			return nil
		}, alt,
	)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"0 multipart/alternative",
		"1 text/plain",
		"1 text/html",
	}, visits)
}

func TestAndProcess_SkipChildren(t *testing.T) {
	t.Parallel()

	m := parseTrip(t)

	visits := []string{}
	err := walk.AndProcess(
		func(part message.Part, parents []message.Part) error {
			visits = append(visits, visit(part, parents))
			if strings.HasPrefix(part.ContentType(), "message/") {
				return walk.SkipChildren
			}
			return nil
		}, m,
	)

	assert.NoError(t, err)
	assert.Equal(t, []string{
		"0 multipart/mixed",
		"1 multipart/alternative",
		"2 text/plain",
		"2 text/html",
		"1 message/rfc822",
		"1 application/pdf",
	}, visits)
}

func TestAndProcess_Stop(t *testing.T) {
	t.Parallel()

	m := parseTrip(t)

	var (
		found message.Part
		calls int
	)
	err := walk.AndProcess(
		func(part message.Part, parents []message.Part) error {
			calls++
			if part.ContentType() == "text/plain" {
				found = part
				assert.Len(t, parents, 2)
				return walk.Stop
			}
			return nil
		}, m,
	)

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	require.NotNil(t, found)
	text, err := found.PayloadText()
	assert.NoError(t, err)
	assert.Equal(t, "See the notes below.", text)
}

func TestAndProcess_Error(t *testing.T) {
	t.Parallel()

	m := parseTrip(t)

	errBad := errors.New("bad part")
	calls := 0
	err := walk.AndProcess(
		func(part message.Part, parents []message.Part) error {
			calls++
			if part.ContentType() == "text/html" {
				return fmt.Errorf("html: %w", errBad)
			}
			return nil
		}, m,
	)

	assert.ErrorIs(t, err, errBad)
	assert.Equal(t, 4, calls)

	// an error on the root ends the walk right away
	calls = 0
	err = walk.AndProcess(
		func(message.Part, []message.Part) error {
			calls++
			return errBad
		}, m,
	)

	assert.ErrorIs(t, err, errBad)
	assert.Equal(t, 1, calls)
}
