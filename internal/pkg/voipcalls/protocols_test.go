package voipcalls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	bsc = "172.16.0.1"
	msc = "172.16.0.2"
)

func TestSCCPConnection(t *testing.T) {
	s := newTestSession(t)
	play(s, []step{
		{at(1, bsc, msc), &SCCPEvent{Assoc: 7, MessageType: SCCPConnectionRequest, Payload: SCCPPayloadBSSMAP, CallingParty: "262011234"}},
		{at(2, msc, bsc), &SCCPEvent{Assoc: 7, MessageType: SCCPConnectionConfirm}},
		{at(3, msc, bsc), &SCCPEvent{Assoc: 7, MessageType: SCCPReleased, Label: "Clear Command"}},
		{at(4, bsc, msc), &SCCPEvent{Assoc: 7, MessageType: SCCPReleaseComplete}},
		{at(5, bsc, msc), &SCCPEvent{Assoc: 7, MessageType: SCCPConnectionRequest, SUA: true}},
	})

	calls := s.Calls()
	require.Len(t, calls, 2, "the trailing RLC does not open a call")
	first := calls[0]
	assert.Equal(t, ProtoBSSMAP, first.Protocol)
	assert.Equal(t, "262011234", first.FromIdentity)
	assert.Equal(t, "Unknown", first.ToIdentity)
	assert.Equal(t, CallStateCompleted, first.State)
	assert.Equal(t, Inactive, first.Active)
	assert.Equal(t, 3, first.Packets)

	assert.Equal(t, ProtoSCCP, calls[1].Protocol)
	assert.Equal(t, CallStateSetup, calls[1].State)

	items := s.Graph().Items()
	require.Len(t, items, 4)
	assert.Equal(t, "CR", items[0].Label)
	assert.Equal(t, "BSSMAP CR", items[0].Comment)
	assert.Equal(t, "Clear Command", items[2].Label)
	assert.Equal(t, "SUA", items[3].Protocol)
}

func TestSCCPWithoutAssociation(t *testing.T) {
	s := newTestSession(t)
	assert.False(t, s.HandleEvent(at(1, bsc, msc), &SCCPEvent{MessageType: SCCPConnectionRequest}))
}

func TestH248Context(t *testing.T) {
	const (
		mgc = "10.3.0.1"
		mgw = "10.3.0.2"
	)
	s := newTestSession(t)

	for _, ctx := range []uint32{H248NullContext, H248ChooseContext, H248AllContexts} {
		assert.False(t, s.HandleEvent(at(1, mgc, mgw), &H248Event{Assoc: 1, ContextID: ctx, Command: "Add"}))
	}
	assert.Empty(t, s.Calls())

	play(s, []step{
		{at(2, mgw, mgc), &H248Event{Assoc: 1, ContextID: 0x10, TransactionID: 5, IsReply: true, Command: "AddReply", TermIDs: []string{"tdm/1"}}},
		{at(3, mgc, mgw), &H248Event{Assoc: 1, ContextID: 0x10, TransactionID: 6, Command: "Add", TermIDs: []string{"rtp/7"}, Text: true}},
		{at(4, mgc, mgw), &H248Event{Assoc: 2, ContextID: 0x10, TransactionID: 7, Command: "Add", TermIDs: []string{"tdm/9"}}},
		{at(5, mgc, mgw), &H248Event{Assoc: 1, ContextID: 0x10, TransactionID: 8, Command: "Subtract", TermIDs: []string{"*"}}},
	})

	calls := s.Calls()
	require.Len(t, calls, 2, "context ids are scoped by association")
	c := calls[0]
	assert.Equal(t, mgc, c.InitialSpeaker)
	assert.Equal(t, mgw+" : 00000010", c.FromIdentity)
	assert.Equal(t, "", c.ToIdentity)
	assert.Equal(t, CallStateCompleted, c.State)
	assert.Equal(t, Inactive, c.Active)
	assert.Equal(t, " tdm/9", calls[1].ToIdentity)

	items := s.Graph().Items()
	require.Len(t, items, 4)
	assert.Equal(t, "TrxId = 5, CtxId = 00000010", items[0].Comment)
	assert.Equal(t, "MEGACO", items[1].Protocol)
	assert.Equal(t, "H248", items[0].Protocol)
}

func TestH248TermList(t *testing.T) {
	s := newTestSession(t)
	play(s, []step{
		{at(1, "a", "b"), &H248Event{Assoc: 1, ContextID: 3, Command: "Add", TermIDs: []string{"t1"}}},
		{at(2, "a", "b"), &H248Event{Assoc: 1, ContextID: 3, Command: "Move", TermIDs: []string{"t2", "t1"}}},
		{at(3, "a", "b"), &H248Event{Assoc: 1, ContextID: 3, Command: "SubtractReq", TermIDs: []string{"t1"}}},
		{at(4, "a", "b"), &H248Event{Assoc: 1, ContextID: 3}},
	})
	require.Len(t, s.Calls(), 1)
	c := s.Calls()[0]
	assert.Equal(t, " t2", c.ToIdentity)
	assert.Equal(t, Active, c.Active)
	assert.Equal(t, "unknown Msg", s.Graph().Items()[3].Label)
}

func TestUNISTIMCall(t *testing.T) {
	const (
		phone  = "10.4.0.5"
		server = "10.4.0.1"
	)
	ev := func(key byte, hook HookState, stream StreamState) *UNISTIMEvent {
		return &UNISTIMEvent{TermID: 0x42, Key: key, Hook: hook, Stream: stream}
	}

	tests := []struct {
		name  string
		steps []step
		want  CallState
		to    string
	}{
		{
			name: "answered",
			steps: []step{
				{at(1, phone, server), ev(0, HookOff, StreamUnchanged)},
				{at(2, phone, server), ev('5', HookUnchanged, StreamUnchanged)},
				{at(3, phone, server), ev('1', HookUnchanged, StreamUnchanged)},
				{at(4, server, phone), ev(0, HookUnchanged, StreamOpened)},
				{at(5, phone, server), ev(0, HookOn, StreamUnchanged)},
			},
			want: CallStateCompleted,
			to:   "51",
		},
		{
			name: "abandoned",
			steps: []step{
				{at(1, phone, server), ev('7', HookUnchanged, StreamUnchanged)},
				{at(2, phone, server), ev(0, HookOn, StreamUnchanged)},
			},
			want: CallStateCancelled,
			to:   "7",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			play(s, tt.steps)
			require.Len(t, s.Calls(), 1)
			c := s.Calls()[0]
			assert.Equal(t, tt.want, c.State)
			assert.Equal(t, tt.to, c.ToIdentity)
			assert.Equal(t, Inactive, c.Active)
			assert.Equal(t, "UNISTIM termid:42", s.Graph().Items()[0].Comment)
		})
	}

	t.Run("display updates do not start calls", func(t *testing.T) {
		s := newTestSession(t)
		assert.False(t, s.HandleEvent(at(1, server, phone), ev(0, HookUnchanged, StreamUnchanged)))
	})

	t.Run("key presses leave the hook alone", func(t *testing.T) {
		s := newTestSession(t)
		play(s, []step{
			{at(1, phone, server), &UNISTIMEvent{TermID: 1, Key: '5'}},
			{at(2, phone, server), &UNISTIMEvent{TermID: 1, Key: '6'}},
			{at(3, phone, server), &UNISTIMEvent{TermID: 1, Key: '7'}},
		})
		require.Len(t, s.Calls(), 1)
		c := s.Calls()[0]
		assert.Equal(t, "567", c.ToIdentity)
		assert.Equal(t, CallStateSetup, c.State)
		assert.Equal(t, Active, c.Active)
		assert.Equal(t, 3, c.Packets)
	})
}

func TestSkinnyCall(t *testing.T) {
	const (
		phone = "10.5.0.10"
		cm    = "10.5.0.1"
	)
	state := func(id uint32, st uint32) *SkinnyEvent {
		return &SkinnyEvent{MessageID: 0x111, MessageName: "CallStateMessage", CallID: id, LineID: 1, CallState: st}
	}

	s := newTestSession(t)
	play(s, []step{
		{at(1, cm, phone), state(900, 1)},
		{at(2, cm, phone), &SkinnyEvent{MessageID: 0x8f, MessageName: "CallInfoMessage", CallID: 900, CallingParty: "1001", CalledParty: "1002"}},
		{at(3, cm, phone), state(900, 3)},
		{at(4, cm, phone), state(900, 5)},
		{at(5, phone, cm), &SkinnyEvent{MessageID: 0x22, MessageName: "OpenReceiveChannelAck", PassThroughPartyID: 900}},
		{at(6, cm, phone), state(900, 2)},
		{at(7, cm, phone), state(900, 1)},
	})

	calls := s.Calls()
	require.Len(t, calls, 2, "off hook after the call ended starts a new one")
	c := calls[0]
	assert.Equal(t, phone, c.InitialSpeaker)
	assert.Equal(t, "1001", c.FromIdentity)
	assert.Equal(t, "1002", c.ToIdentity)
	assert.Equal(t, CallStateCompleted, c.State)
	assert.Equal(t, 6, c.Packets)
	assert.Equal(t, CallStateSetup, calls[1].State)

	items := s.Graph().Items()
	assert.Equal(t, "CallId = 900, LineId = 1", items[0].Comment)
	assert.Equal(t, "PTId = 900", items[4].Comment)

	assert.False(t, s.HandleEvent(at(8, cm, phone), &SkinnyEvent{MessageID: 0x100, MessageName: "KeepAliveAck"}))
}

func TestSkinnyStateMap(t *testing.T) {
	tests := []struct {
		st   uint32
		want CallState
	}{
		{0, CallStateNone},
		{1, CallStateSetup},
		{2, CallStateCompleted},
		{3, CallStateRinging},
		{5, CallStateInCall},
		{6, CallStateRejected},
		{8, CallStateInCall},
		{12, CallStateSetup},
		{14, CallStateRejected},
		{15, CallStateNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, skinnyCallState(tt.st), "state %d", tt.st)
	}
}

func TestIAX2Call(t *testing.T) {
	const (
		pbx1 = "10.6.0.1"
		pbx2 = "10.6.0.2"
	)
	iax := func(ft, sub uint8, src, dst uint16) *IAX2Event {
		return &IAX2Event{FullFrame: true, FrameType: ft, Subclass: sub, SCallNo: src, DCallNo: dst}
	}
	newCall := iax(IAX2FrameIAX, IAX2CmdNew, 10, 0)
	newCall.CallingParty = "alice"
	newCall.CalledParty = "200"
	newCall.MessageName = "NEW"

	tests := []struct {
		name  string
		steps []step
		want  CallState
		stats Stats
	}{
		{
			name: "answered and hung up",
			steps: []step{
				{at(1, pbx1, pbx2), newCall},
				{at(2, pbx2, pbx1), iax(IAX2FrameIAX, IAX2CmdAccept, 20, 10)},
				{at(3, pbx2, pbx1), iax(IAX2FrameControl, IAX2CtrlRinging, 20, 10)},
				{at(4, pbx2, pbx1), iax(IAX2FrameControl, IAX2CtrlAnswer, 20, 10)},
				{at(5, pbx2, pbx1), &IAX2Event{SCallNo: 20}},
				{at(6, pbx1, pbx2), iax(IAX2FrameIAX, IAX2CmdHangup, 10, 20)},
			},
			want:  CallStateCompleted,
			stats: Stats{Calls: 1, Completed: 1, Packets: 5},
		},
		{
			name: "busy",
			steps: []step{
				{at(1, pbx1, pbx2), newCall},
				{at(2, pbx2, pbx1), iax(IAX2FrameControl, IAX2CtrlBusy, 20, 10)},
			},
			want:  CallStateRejected,
			stats: Stats{Calls: 1, Rejected: 1, Packets: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			play(s, tt.steps)
			require.Len(t, s.Calls(), 1)
			c := s.Calls()[0]
			assert.Equal(t, tt.want, c.State)
			assert.Equal(t, "alice", c.FromIdentity)
			assert.Equal(t, "200", c.ToIdentity)
			assert.Equal(t, uint16(20), c.Info.(*IAX2Info).DCallNo)
			assert.Equal(t, tt.stats, s.Stats())
		})
	}

	t.Run("only NEW starts a call", func(t *testing.T) {
		s := newTestSession(t)
		assert.False(t, s.HandleEvent(at(1, pbx1, pbx2), iax(IAX2FrameControl, IAX2CtrlAnswer, 1, 2)))
	})
}

func TestACTraceISDN(t *testing.T) {
	const gw = "10.7.0.1"
	s := newTestSession(t)

	fromPSTN := &ACTraceEvent{Type: ACTraceISDN, Trunk: 3, Direction: 1}
	toPSTN := &ACTraceEvent{Type: ACTraceISDN, Trunk: 3, Direction: 0}
	setup := q931(Q931Setup, 77)
	setup.CallingNumber = "0301234"
	setup.CalledNumber = "0409876"
	rel := q931(Q931Disconnect, 77)
	rel.Cause = 16

	play(s, []step{
		{at(1, gw, "syslog"), fromPSTN},
		{at(1, gw, "syslog"), setup},
		{at(2, gw, "syslog"), toPSTN},
		{at(2, gw, "syslog"), q931(Q931Alerting, 77)},
		{at(3, gw, "syslog"), toPSTN},
		{at(3, gw, "syslog"), q931(Q931Connect, 77)},
		{at(4, gw, "syslog"), fromPSTN},
		{at(4, gw, "syslog"), rel},
	})

	require.Len(t, s.Calls(), 1)
	c := s.Calls()[0]
	assert.Equal(t, ProtoACISDN, c.Protocol)
	assert.Equal(t, "PSTN", c.InitialSpeaker)
	assert.Equal(t, "0301234", c.FromIdentity)
	assert.Equal(t, CallStateCompleted, c.State)

	items := s.Graph().Items()
	require.Len(t, items, 4)
	assert.Equal(t, "PSTN", items[0].Src.Addr)
	assert.Equal(t, gw, items[0].Dst.Addr)
	assert.Equal(t, "PSTN", items[1].Dst.Addr)
	assert.Equal(t, "SETUP", items[0].Label)
	assert.Equal(t, "AC_ISDN trunk:3 Cause: Normal call clearing", items[3].Comment)
}

func TestACTraceCAS(t *testing.T) {
	s := newTestSession(t)
	play(s, []step{
		{at(1, "10.7.0.1", "syslog"), &ACTraceEvent{Type: ACTraceCAS, Trunk: 1, BChannel: 4, Direction: 1, CASLabel: "Seizure"}},
		{at(2, "10.7.0.1", "syslog"), &ACTraceEvent{Type: ACTraceCAS, Trunk: 1, BChannel: 4, CASLabel: "Seizure Ack"}},
	})
	require.Len(t, s.Calls(), 1)
	c := s.Calls()[0]
	assert.Equal(t, "N/A", c.FromIdentity)
	assert.Equal(t, CallStateSetup, c.State)
	assert.Equal(t, "AC_CAS  trunk:1", s.Graph().Items()[1].Comment)
}

func TestGenericVoIP(t *testing.T) {
	s := newTestSession(t)
	play(s, []step{
		{at(1, alice, bob), &VoIPEvent{ProtocolName: "SIGTRAN-X", CallID: "k1", State: CallStateSetup, FromIdentity: "a", ToIdentity: "b", FrameLabel: "Start"}},
		{at(2, bob, alice), &VoIPEvent{ProtocolName: "SIGTRAN-X", CallID: "k1", State: CallStateInCall}},
		{at(3, bob, alice), &VoIPEvent{ProtocolName: "SIGTRAN-X", CallID: "k1", State: CallStateCompleted, Active: Inactive, FrameComment: "bye"}},
		{at(4, alice, bob), &VoIPEvent{ProtocolName: "SIGTRAN-X", CallID: "k1", State: CallStateSetup}},
	})

	calls := s.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, CallStateCompleted, calls[0].State)
	assert.Equal(t, Inactive, calls[0].Active)
	assert.Equal(t, "a", calls[0].FromIdentity)

	items := s.Graph().Items()
	assert.Equal(t, "Start", items[0].Label)
	assert.Equal(t, "VoIP msg", items[1].Label)
	assert.Equal(t, "SIGTRAN-X", items[2].Protocol)
	assert.Equal(t, "bye", items[2].Comment)

	assert.False(t, s.HandleEvent(at(5, alice, bob), &VoIPEvent{ProtocolName: "X"}))
}
