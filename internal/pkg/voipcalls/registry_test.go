package voipcalls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateAndFind(t *testing.T) {
	r := NewRegistry(NewGraph())

	sip := r.Create(ProtoSIP, at(1, alice, bob), &SIPInfo{CallID: "abc"})
	isup := r.Create(ProtoISUP, at(2, "stp", "stp"), &ISUPInfo{CIC: 7, OPC: 1, DPC: 2})

	assert.Equal(t, 0, sip.CallNum)
	assert.Equal(t, 1, isup.CallNum)
	assert.Equal(t, alice, sip.InitialSpeaker)
	assert.Equal(t, Active, sip.Active)

	assert.Same(t, sip, r.FindSIP("abc"))
	assert.Nil(t, r.FindSIP("other"))

	found := r.FindActive(ProtoISUP, func(c *CallRecord) bool {
		return c.Info.(*ISUPInfo).CIC == 7
	})
	assert.Same(t, isup, found)
	assert.Nil(t, r.FindActive(ProtoSIP, func(c *CallRecord) bool {
		_, ok := c.Info.(*ISUPInfo)
		return ok
	}), "search is limited to the protocol family")

	r.Close(sip, CallStateCompleted)
	assert.Nil(t, r.FindSIP("abc"))
	assert.Same(t, sip, r.ByCallNum(0), "closed records stay listed")
	assert.Equal(t, Inactive, sip.Active)
}

func TestRegistryFamilyMatch(t *testing.T) {
	r := NewRegistry(NewGraph())
	c := r.Create(ProtoBSSMAP, at(1, "a", "b"), &SCCPInfo{Assoc: 9, Payload: SCCPPayloadBSSMAP})

	got := r.FindActive(ProtoSCCP, func(c *CallRecord) bool {
		return c.Info.(*SCCPInfo).Assoc == 9
	})
	assert.Same(t, c, got)
}

func TestRegistryMerge(t *testing.T) {
	g := NewGraph()
	r := NewRegistry(g)

	prov := r.Create(ProtoH323, at(1, alice, bob), &H323Info{CRV: -1, CRV2: -1})
	auth := r.Create(ProtoH323, at(3, alice, bob), &H323Info{GUID: GUID{1}, CRV: -1, CRV2: -1})
	auth.Packets = 1

	g.Append(item(1, prov.CallNum, "LRQ"))
	g.Append(item(2, prov.CallNum, "LCF"))
	g.Append(item(3, auth.CallNum, "Setup"))

	n := r.Merge(prov, auth)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, auth.Packets)
	assert.Equal(t, 1, r.Len())
	assert.Nil(t, prov.Info, "provisional payload is released")
	for _, it := range g.Items() {
		assert.Equal(t, auth.CallNum, it.CallNum)
	}

	assert.Zero(t, r.Merge(auth, auth))
	assert.Zero(t, r.Merge(nil, auth))
}

func TestRegistryReset(t *testing.T) {
	r := NewRegistry(NewGraph())
	r.Create(ProtoSIP, at(1, alice, bob), &SIPInfo{CallID: "x"})
	r.Create(ProtoSIP, at(2, alice, bob), &SIPInfo{CallID: "y"})

	r.Reset()
	assert.Zero(t, r.Len())
	assert.Nil(t, r.FindSIP("x"))

	c := r.Create(ProtoSIP, at(3, alice, bob), &SIPInfo{CallID: "z"})
	assert.Equal(t, 0, c.CallNum, "numbering restarts")
}

func TestCorrelationKey(t *testing.T) {
	tests := []struct {
		name  string
		proto Protocol
		info  ProtInfo
		want  string
	}{
		{"sip", ProtoSIP, &SIPInfo{CallID: "a@b"}, "SIP/a@b"},
		{"isup orders point codes", ProtoISUP, &ISUPInfo{CIC: 3, OPC: 20, DPC: 10, NI: 2}, "ISUP/3-10-20-2"},
		{"h323 without guid", ProtoH323, &H323Info{RequestSeqNum: 12}, "H.323/ras-12"},
		{"mgcp is case insensitive", ProtoMGCP, &MGCPInfo{EndpointID: "AALN/1@GW"}, "MGCP/aaln/1@gw"},
		{"ranap folds to sccp", ProtoRANAP, &SCCPInfo{Assoc: 5}, "SCCP/5"},
		{"h248", ProtoH248, &H248Info{Assoc: 1, ContextID: 0x2a}, "H.248/1-0000002a"},
		{"generic", ProtoVoIP, &CommonInfo{CallID: "c1", ProtocolName: "XYZ"}, "VoIP/XYZ/c1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CallRecord{Protocol: tt.proto, Info: tt.info}
			assert.Equal(t, tt.want, CorrelationKey(c))
		})
	}
}

func TestActiveKeysUnique(t *testing.T) {
	s := newTestSession(t)

	// Two complete calls reusing one Call-ID, then a third left open.
	for i, cseq := range []uint32{1, 2, 3} {
		base := uint32(i * 10)
		play(s, []step{
			{at(base+1, alice, bob), sipReq("INVITE", "reuse", cseq)},
			{at(base+2, bob, alice), sipResp(200, "OK", "reuse", cseq, "INVITE")},
			{at(base+3, alice, bob), sipReq("ACK", "reuse", cseq)},
		})
		if i < 2 {
			s.HandleEvent(at(base+4, alice, bob), sipReq("BYE", "reuse", cseq+100))
		}
	}

	require.Len(t, s.Calls(), 3)
	for key, n := range s.Registry().ActiveKeys() {
		assert.Equal(t, 1, n, "key %s", key)
	}
	assert.Equal(t, Inactive, s.Calls()[0].Active)
	assert.Equal(t, Inactive, s.Calls()[1].Active)
	assert.Equal(t, Active, s.Calls()[2].Active)
}
