package gami

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldHelpers(t *testing.T) {
	p := NewPacket()
	p.Set("Action", "X")

	omit := fOpt("Category", "")
	assert.Equal(t, "", omit.value)
	assert.True(t, omit.omitEmpty)

	assert.Equal(t, "42", fInt("Timeout", 42).value)
	assert.Equal(t, "yes", fYesNo("Tone", true).value)
	assert.Equal(t, "no", fYesNo("Tone", false).value)
}

func TestVarListDeterministicOrder(t *testing.T) {
	v := varList(map[string]string{"B": "2", "A": "1"})
	assert.Equal(t, "A=1,B=2", v)
	assert.Equal(t, "", varList(nil))
}

func TestOriginateRejectsNeitherTarget(t *testing.T) {
	sess := &Session{}
	_, err := sess.Originate(OriginateRequest{Channel: "SIP/1"})
	require.Error(t, err)
	var af *ActionFailedError
	assert.ErrorAs(t, err, &af)
}

func TestOriginateRejectsBothTargets(t *testing.T) {
	sess := &Session{}
	_, err := sess.Originate(OriginateRequest{
		Channel:     "SIP/1",
		Dialplan:    &OriginateDialplan{Context: "default", Exten: "100", Priority: 1},
		Application: &OriginateApplication{Application: "Playback"},
	})
	require.Error(t, err)
	var af *ActionFailedError
	assert.ErrorAs(t, err, &af)
}

func TestOriginateRejectsEmptyChannel(t *testing.T) {
	sess := &Session{}
	_, err := sess.Originate(OriginateRequest{
		Dialplan: &OriginateDialplan{Context: "default", Exten: "100", Priority: 1},
	})
	require.Error(t, err)
}

func TestGetvarNullWithDefault(t *testing.T) {
	sess, _ := dialMockSession(t, func(m *mockServer) {
		m.handleLoginOK()
		p := m.readPacket()
		aid, _ := p.ActionID()
		variable, _ := p.Get("Variable")
		m.writeRaw("Response: Success\r\nActionID: " + aid + "\r\n" + variable + ": (null)\r\n\r\n")
	})

	v, err := sess.Getvar("SIP/1-1", "NOT_SET", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)
}

func TestGetvarNullWithoutDefault(t *testing.T) {
	sess, _ := dialMockSession(t, func(m *mockServer) {
		m.handleLoginOK()
		p := m.readPacket()
		aid, _ := p.ActionID()
		variable, _ := p.Get("Variable")
		m.writeRaw("Response: Success\r\nActionID: " + aid + "\r\n" + variable + ": (null)\r\n\r\n")
	})

	_, err := sess.Getvar("SIP/1-1", "NOT_SET")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestGetvarSet(t *testing.T) {
	sess, _ := dialMockSession(t, func(m *mockServer) {
		m.handleLoginOK()
		p := m.readPacket()
		aid, _ := p.ActionID()
		variable, _ := p.Get("Variable")
		m.writeRaw("Response: Success\r\nActionID: " + aid + "\r\n" + variable + ": hello\r\n\r\n")
	})

	v, err := sess.Getvar("SIP/1-1", "GREETING")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}
