package voipcalls

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testBase = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// at builds the packet context of frame, captured 10ms per frame after
// testBase.
func at(frame uint32, src, dst string) *PacketInfo {
	return &PacketInfo{
		Frame:     frame,
		Time:      testBase.Add(time.Duration(frame) * 10 * time.Millisecond),
		Src:       Endpoint{Addr: src, Port: 5060},
		Dst:       Endpoint{Addr: dst, Port: 5060},
		Transport: "UDP",
	}
}

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s := NewSession(nil, opts...)
	require.NotNil(t, s)
	return s
}

// step is one event of a scripted capture.
type step struct {
	pkt *PacketInfo
	ev  Event
}

func play(s *Session, steps []step) {
	for _, st := range steps {
		s.HandleEvent(st.pkt, st.ev)
	}
}

func sipReq(method, callID string, cseq uint32) *SIPEvent {
	return &SIPEvent{
		CallID:     callID,
		Method:     method,
		CSeq:       cseq,
		CSeqMethod: method,
		From:       "sip:alice@example.com",
		To:         "sip:bob@example.com",
	}
}

func sipResp(code int, reason, callID string, cseq uint32, cseqMethod string) *SIPEvent {
	return &SIPEvent{
		CallID:       callID,
		ResponseCode: code,
		ReasonPhrase: reason,
		CSeq:         cseq,
		CSeqMethod:   cseqMethod,
		From:         "sip:alice@example.com",
		To:           "sip:bob@example.com",
	}
}

const (
	alice = "10.0.0.1"
	bob   = "10.0.0.2"
)
