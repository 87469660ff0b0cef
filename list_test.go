package gami

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueStatusAggregation(t *testing.T) {
	sess, _ := dialMockSession(t, func(m *mockServer) {
		m.handleLoginOK()
		p := m.readPacket()
		aid, _ := p.ActionID()
		m.writeRaw("Response: Success\r\nActionID: " + aid + "\r\nMessage: Queue status will follow\r\n\r\n")
		m.writeRaw("Event: QueueParams\r\nQueue: support\r\nMax: 0\r\n\r\n")
		m.writeRaw("Event: QueueMember\r\nQueue: support\r\nLocation: SIP/200\r\nPenalty: 0\r\n\r\n")
		m.writeRaw("Event: QueueEntry\r\nQueue: support\r\nChannel: SIP/300-1\r\nPosition: 1\r\n\r\n")
		m.writeRaw("Event: QueueStatusEnd\r\n\r\n")
	})

	result, err := sess.QueueStatus()
	require.NoError(t, err)
	require.Contains(t, result, "support")

	entry := result["support"]
	max, _ := entry.Fields.Get("Max")
	assert.Equal(t, "0", max)
	require.Contains(t, entry.Members, "SIP/200")
	require.Contains(t, entry.Entries, "SIP/300-1")
}

func TestParkedCallsAggregation(t *testing.T) {
	sess, _ := dialMockSession(t, func(m *mockServer) {
		m.handleLoginOK()
		p := m.readPacket()
		aid, _ := p.ActionID()
		m.writeRaw("Response: Success\r\nActionID: " + aid + "\r\nMessage: Parked calls will follow\r\n\r\n")
		m.writeRaw("Event: ParkedCall\r\nExten: 701\r\nChannel: SIP/1-1\r\n\r\n")
		m.writeRaw("Event: ParkedCallsComplete\r\n\r\n")
	})

	result, err := sess.ParkedCalls()
	require.NoError(t, err)
	require.Contains(t, result, "701")
	ch, _ := result["701"].Get("Channel")
	assert.Equal(t, "SIP/1-1", ch)
}

func TestZapShowChannelsAggregation(t *testing.T) {
	sess, _ := dialMockSession(t, func(m *mockServer) {
		m.handleLoginOK()
		p := m.readPacket()
		aid, _ := p.ActionID()
		m.writeRaw("Response: Success\r\nActionID: " + aid + "\r\nMessage: Zap channel status will follow\r\n\r\n")
		m.writeRaw("Event: ZapShowChannels\r\nChannel: Zap/1-1\r\nSignalling: FXS\r\n\r\n")
		m.writeRaw("Event: ZapShowChannelsComplete\r\n\r\n")
	})

	result, err := sess.ZapShowChannels()
	require.NoError(t, err)
	require.Contains(t, result, "Zap/1-1")
}

func TestConfbridgeList(t *testing.T) {
	sess, _ := dialMockSession(t, func(m *mockServer) {
		m.handleLoginOK()
		p := m.readPacket()
		aid, _ := p.ActionID()
		m.writeRaw("Response: Success\r\nActionID: " + aid + "\r\nMessage: Confbridge list will follow\r\n\r\n")
		m.writeRaw("Event: ConfbridgeList\r\nEventList: start\r\nConference: room1\r\n\r\n")
		m.writeRaw("Event: ConfbridgeList\r\nConference: room1\r\nChannel: SIP/1-1\r\n\r\n")
		m.writeRaw("Event: ConfbridgeList\r\nConference: room1\r\nChannel: SIP/2-1\r\n\r\n")
		m.writeRaw("Event: ConfbridgeListComplete\r\nEventList: Complete\r\nListItems: 2\r\n\r\n")
	})

	result, err := sess.ConfbridgeList("room1")
	require.NoError(t, err)
	require.Len(t, result, 2)
	ch, _ := result[0].Get("Channel")
	assert.Equal(t, "SIP/1-1", ch)
}

func TestMeetmeList(t *testing.T) {
	sess, _ := dialMockSession(t, func(m *mockServer) {
		m.handleLoginOK()
		p := m.readPacket()
		aid, _ := p.ActionID()
		m.writeRaw("Response: Success\r\nActionID: " + aid + "\r\nMessage: Meetme list will follow\r\n\r\n")
		m.writeRaw("Event: MeetmeList\r\nEventList: start\r\n\r\n")
		m.writeRaw("Event: MeetmeList\r\nConference: 1234\r\nChannel: SIP/9-1\r\n\r\n")
		m.writeRaw("Event: MeetmeListComplete\r\nEventList: Complete\r\n\r\n")
	})

	result, err := sess.MeetmeList("")
	require.NoError(t, err)
	require.Len(t, result, 1)
	conf, _ := result[0].Get("Conference")
	assert.Equal(t, "1234", conf)
}
