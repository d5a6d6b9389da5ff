package replay

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/endorses/callflow/internal/pkg/voipcalls"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sipMessage(start, cseq, body string) string {
	msg := start + "\r\n" +
		"Via: SIP/2.0/UDP 10.0.0.1:5060;branch=z9hG4bK776asdhds\r\n" +
		"From: Alice <sip:alice@example.com>;tag=1928301774\r\n" +
		"To: Bob <sip:bob@example.com>\r\n" +
		"Call-ID: a84b4c76e66710@pc33.example.com\r\n" +
		"CSeq: " + cseq + "\r\n"
	if body == "" {
		return msg + "Content-Length: 0\r\n\r\n"
	}
	return msg + "Content-Type: application/sdp\r\n" +
		fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body)) + body
}

func basicCall(t *testing.T) []frame {
	return []frame{
		sipFrame(alice, bob, sipMessage("INVITE sip:bob@example.com SIP/2.0", "1 INVITE",
			sdpBody(alice, 40000, "0 101", "rtpmap:101 telephone-event/8000"))),
		sipFrame(bob, alice, sipMessage("SIP/2.0 180 Ringing", "1 INVITE", "")),
		sipFrame(bob, alice, sipMessage("SIP/2.0 200 OK", "1 INVITE", sdpBody(bob, 40002, "0"))),
		sipFrame(alice, bob, sipMessage("ACK sip:bob@example.com SIP/2.0", "1 ACK", "")),
		rtpFrame(t, alice, bob, 40000, 40002, 0, 1, make([]byte, 160)),
		rtpFrame(t, bob, alice, 40002, 40000, 101, 1, []byte{1, 0x0a, 0, 160}),
		sipFrame(alice, bob, sipMessage("BYE sip:bob@example.com SIP/2.0", "2 BYE", "")),
		sipFrame(bob, alice, sipMessage("SIP/2.0 200 OK", "2 BYE", "")),
	}
}

func TestReplaySIPCall(t *testing.T) {
	path := writePcap(t, layers.LinkTypeEthernet, basicCall(t))
	sess := voipcalls.NewSession(nil)

	stats, err := File(context.Background(), path, sess, nil)
	require.NoError(t, err)
	assert.Equal(t, Stats{Frames: 8, UDP: 8, SIP: 6, SDP: 2, RTP: 2}, stats)

	calls := sess.Calls()
	require.Len(t, calls, 1)
	c := calls[0]
	assert.Equal(t, voipcalls.ProtoSIP, c.Protocol)
	assert.Equal(t, "sip:alice@example.com", c.FromIdentity)
	assert.Equal(t, "sip:bob@example.com", c.ToIdentity)
	assert.Equal(t, alice, c.InitialSpeaker)
	assert.Equal(t, voipcalls.CallStateCompleted, c.State)
	assert.Equal(t, captureBase, c.StartTime)

	items := sess.Graph().Items()
	require.Len(t, items, 8)
	assert.Equal(t, "INVITE SDP (g711U telephone-event)", items[0].Label)
	assert.Equal(t, "180 Ringing", items[1].Label)
	assert.Equal(t, "200 OK SDP (g711U)", items[2].Label)

	assert.Equal(t, "RTP", items[4].Protocol)
	assert.Equal(t, "RTP (g711U)", items[4].Label)
	assert.Equal(t, uint32(5), items[4].Frame)

	assert.Equal(t, "RTP (telephone-event) DTMF One 1", items[5].Label)
	assert.Equal(t, "RTP, 1 packets. Duration: 0.000s SSRC: 0xCAFE", items[5].Comment)
	assert.True(t, sess.Graph().Sorted())
}

func TestReplayRawIP(t *testing.T) {
	path := writePcap(t, layers.LinkTypeRaw, basicCall(t)[:4])
	sess := voipcalls.NewSession(nil)

	stats, err := File(context.Background(), path, sess, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.SIP)
	require.Len(t, sess.Calls(), 1)
	assert.Equal(t, voipcalls.CallStateInCall, sess.Calls()[0].State)
}

func TestReplayPcapng(t *testing.T) {
	path := writePcapng(t, basicCall(t))
	sess := voipcalls.NewSession(nil)

	stats, err := File(context.Background(), path, sess, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, stats.Frames)
	assert.Len(t, sess.Calls(), 1)
}

func TestReplayRTPDisabled(t *testing.T) {
	path := writePcap(t, layers.LinkTypeEthernet, basicCall(t))
	sess := voipcalls.NewSession(nil)
	cfg := DefaultConfig()
	cfg.RTP = false

	stats, err := File(context.Background(), path, sess, cfg)
	require.NoError(t, err)
	assert.Zero(t, stats.RTP)
	assert.Equal(t, 6, sess.Graph().Len())
}

func TestReplaySIPOnOtherPort(t *testing.T) {
	f := sipFrame(alice, bob, sipMessage("INVITE sip:bob@example.com SIP/2.0", "1 INVITE", ""))
	f.sport, f.dport = 15060, 15060
	path := writePcap(t, layers.LinkTypeEthernet, []frame{f})

	sess := voipcalls.NewSession(nil)
	stats, err := File(context.Background(), path, sess, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SIP)
	assert.Len(t, sess.Calls(), 1)
}

func TestReplayUndecodable(t *testing.T) {
	frames := []frame{
		sipFrame(alice, bob, "FOO sip:bob SIP/2.0\r\n\r\n"),
		{src: alice, dst: bob, sport: 2427, dport: 2727, payload: []byte("hello")},
		{src: alice, dst: bob, sport: 9999, dport: 9998, payload: []byte("noise")},
	}
	path := writePcap(t, layers.LinkTypeEthernet, frames)

	sess := voipcalls.NewSession(nil)
	stats, err := File(context.Background(), path, sess, nil)
	require.NoError(t, err)
	assert.Equal(t, Stats{Frames: 3, UDP: 3, Errors: 2}, stats)
	assert.Empty(t, sess.Calls())
}

func TestOpenErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "none.pcap"))
		assert.Error(t, err)
	})

	t.Run("not a capture", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "junk.pcap")
		require.NoError(t, os.WriteFile(path, []byte("definitely not pcap data"), 0o600))
		_, err := Open(path)
		assert.Error(t, err)
	})

	t.Run("unsupported link type", func(t *testing.T) {
		path := writePcap(t, layers.LinkTypeNull, nil)
		_, err := Open(path)
		assert.ErrorIs(t, err, ErrUnsupportedLinkType)
	})
}

func TestRunCancelled(t *testing.T) {
	path := writePcap(t, layers.LinkTypeEthernet, basicCall(t))
	rd, err := Open(path)
	require.NoError(t, err)
	defer rd.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := New(voipcalls.NewSession(nil), nil).Run(ctx, rd)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Frames)
}

func TestIsSIPStartLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"SIP/2.0 200 OK", true},
		{"INVITE sip:bob@example.com SIP/2.0", true},
		{"SUBSCRIBE sip:bob@example.com SIP/2.0", true},
		{"FOO sip:bob@example.com SIP/2.0", false},
		{"GET / HTTP/1.1", false},
		{"INVITE sip:bob@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, isSIPStartLine(tt.line))
		})
	}
}

func TestHeaderURI(t *testing.T) {
	assert.Equal(t, "sip:alice@example.com", headerURI("Alice <sip:alice@example.com>;tag=1"))
	assert.Equal(t, "sip:bob@example.com", headerURI("sip:bob@example.com;tag=2"))
	assert.Equal(t, "", headerURI(""))
}
