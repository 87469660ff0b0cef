package gami

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacketSetGetOrder(t *testing.T) {
	p := NewPacket()
	p.Set("Response", "Success")
	p.Set("ActionID", "abc-1")
	p.Set("Message", "done")

	assert.Equal(t, []string{"Response", "ActionID", "Message"}, p.Keys())
	v, ok := p.Get("Message")
	assert.True(t, ok)
	assert.Equal(t, "done", v)
}

func TestPacketSetOverwritePreservesPosition(t *testing.T) {
	p := NewPacket()
	p.Set("A", "1")
	p.Set("B", "2")
	p.Set("A", "3")

	assert.Equal(t, []string{"A", "B"}, p.Keys())
	v, _ := p.Get("A")
	assert.Equal(t, "3", v)
}

func TestPacketMultiValueCollapse(t *testing.T) {
	p := NewPacket()
	p.Set("ChanVariable", "FOO=bar")
	p.Set("ChanVariable", "BAZ=qux")

	mv := p.MultiValue("ChanVariable")
	require.NotNil(t, mv)
	assert.Equal(t, "bar", mv["FOO"])
	assert.Equal(t, "qux", mv["BAZ"])
	assert.Len(t, p.Keys(), 1)
}

func TestReadPacketSimple(t *testing.T) {
	raw := "Response: Success\r\nActionID: 123\r\nMessage: ok\r\n\r\n"
	r := bufio.NewReader(strings.NewReader(raw))

	p, err := readPacket(r)
	require.NoError(t, err)

	resp, ok := p.Response()
	require.True(t, ok)
	assert.Equal(t, "Success", resp)

	aid, _ := p.ActionID()
	assert.Equal(t, "123", aid)
}

func TestReadPacketEmptyValueLine(t *testing.T) {
	raw := "Event: Hangup\r\nCause-txt:\r\nChannel: SIP/1-1\r\n\r\n"
	r := bufio.NewReader(strings.NewReader(raw))

	p, err := readPacket(r)
	require.NoError(t, err)

	v, ok := p.Get("Cause-txt")
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestReadPacketFollows(t *testing.T) {
	raw := "Response: Follows\r\nActionID: 5\r\nline one\r\nline two\r\n--END COMMAND--\r\n\r\n"
	r := bufio.NewReader(strings.NewReader(raw))

	p, err := readPacket(r)
	require.NoError(t, err)

	assert.True(t, p.IsFollows())
	aid, _ := p.ActionID()
	assert.Equal(t, "5", aid)
	assert.Equal(t, []string{"line one", "line two"}, p.Lines())
}

func TestEncodeThenParseRoundTrip(t *testing.T) {
	p := NewPacket()
	p.Set("Action", "Ping")
	p.Set("ActionID", "xyz-9")
	p.Set("Extra", "value")

	encoded := p.Encode()
	assert.True(t, strings.HasPrefix(string(encoded), "Action: Ping\r\nActionID: xyz-9\r\n"))

	r := bufio.NewReader(strings.NewReader(string(encoded)))
	p2, err := readPacket(r)
	require.NoError(t, err)

	v, _ := p2.Get("Extra")
	assert.Equal(t, "value", v)
	aid, _ := p2.ActionID()
	assert.Equal(t, "xyz-9", aid)
}

func TestReadPacketMalformedLine(t *testing.T) {
	raw := "this has no colon at all\r\n\r\n"
	r := bufio.NewReader(strings.NewReader(raw))

	_, err := readPacket(r)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestReadBannerMismatch(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("Not The Right Banner\r\n"))
	err := readBanner(r)
	assert.ErrorIs(t, err, ErrBannerMismatch)
}

func TestReadBannerOK(t *testing.T) {
	r := bufio.NewReader(strings.NewReader(banner))
	err := readBanner(r)
	assert.NoError(t, err)
}
