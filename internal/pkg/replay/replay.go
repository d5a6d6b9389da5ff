// Package replay decodes VoIP signalling and media from a capture file and
// feeds the records to a voipcalls.Session in frame order.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/endorses/callflow/internal/pkg/logger"
	"github.com/endorses/callflow/internal/pkg/voipcalls"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

var errNotRTP = errors.New("not an RTP packet")

// Stats counts what one replay pass decoded.
type Stats struct {
	Frames int `json:"frames" yaml:"frames"`
	UDP    int `json:"udp" yaml:"udp"`
	SIP    int `json:"sip" yaml:"sip"`
	SDP    int `json:"sdp" yaml:"sdp"`
	MGCP   int `json:"mgcp" yaml:"mgcp"`
	RTP    int `json:"rtp" yaml:"rtp"`
	Errors int `json:"errors" yaml:"errors"`
}

// Replayer holds the decoder state of one pass: open MGCP transactions and
// the media endpoints announced so far.
type Replayer struct {
	cfg       Config
	sess      *voipcalls.Session
	sipPorts  portSet
	mgcpPorts portSet
	media     mediaTable
	mgcpTx    mgcpTransactions
	stats     Stats
	log       *slog.Logger
}

// New returns a replayer feeding sess. A nil cfg uses DefaultConfig.
func New(sess *voipcalls.Session, cfg *Config) *Replayer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Replayer{
		cfg:       *cfg,
		sess:      sess,
		sipPorts:  newPortSet(cfg.SIPPorts),
		mgcpPorts: newPortSet(cfg.MGCPPorts),
		media:     make(mediaTable),
		mgcpTx:    make(mgcpTransactions),
		log:       logger.WithGroup("replay"),
	}
}

// Stats returns the counters of the pass so far.
func (r *Replayer) Stats() Stats {
	return r.stats
}

// Run feeds every packet of rd to the session, numbering frames from 1.
// It stops early when ctx is cancelled.
func (r *Replayer) Run(ctx context.Context, rd *Reader) (Stats, error) {
	for {
		if err := ctx.Err(); err != nil {
			return r.stats, err
		}
		pkt, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return r.stats, fmt.Errorf("failed to read frame %d of %s: %w", r.stats.Frames+1, rd.Path(), err)
		}
		r.stats.Frames++
		r.Packet(uint32(r.stats.Frames), pkt)
	}

	r.log.Debug("replay finished",
		"path", rd.Path(),
		"frames", r.stats.Frames,
		"sip", r.stats.SIP,
		"mgcp", r.stats.MGCP,
		"rtp", r.stats.RTP)
	return r.stats, nil
}

// Packet decodes one frame and hands its records to the session.
func (r *Replayer) Packet(frame uint32, pkt gopacket.Packet) {
	info, payload, ok := udpInfo(frame, pkt)
	if !ok {
		return
	}
	r.stats.UDP++
	r.sess.BeginPacket(info)

	switch {
	case r.sipPorts.has(info.Src.Port, info.Dst.Port) || looksLikeSIP(payload):
		r.handleSIP(info, payload)
	case r.mgcpPorts.has(info.Src.Port, info.Dst.Port):
		r.handleMGCP(info, payload)
	case r.cfg.RTP:
		r.handleRTP(info, payload)
	}
}

func udpInfo(frame uint32, pkt gopacket.Packet) (*voipcalls.PacketInfo, []byte, bool) {
	var src, dst string
	switch ip := pkt.NetworkLayer().(type) {
	case *layers.IPv4:
		src, dst = ip.SrcIP.String(), ip.DstIP.String()
	case *layers.IPv6:
		src, dst = ip.SrcIP.String(), ip.DstIP.String()
	default:
		return nil, nil, false
	}
	udp, ok := pkt.Layer(layers.LayerTypeUDP).(*layers.UDP)
	if !ok || len(udp.Payload) == 0 {
		return nil, nil, false
	}

	return &voipcalls.PacketInfo{
		Frame:     frame,
		Time:      pkt.Metadata().Timestamp,
		Src:       voipcalls.Endpoint{Addr: src, Port: uint16(udp.SrcPort)},
		Dst:       voipcalls.Endpoint{Addr: dst, Port: uint16(udp.DstPort)},
		Transport: "UDP",
	}, udp.Payload, true
}

func (r *Replayer) handleSIP(info *voipcalls.PacketInfo, payload []byte) {
	ev, sdpEv, media, err := decodeSIP(payload)
	if err != nil {
		r.stats.Errors++
		r.log.Debug("skipping undecodable SIP", "frame", info.Frame, "error", err)
		return
	}
	r.stats.SIP++
	r.sess.HandleEvent(info, ev)
	if sdpEv != nil {
		r.stats.SDP++
		r.sess.HandleEvent(info, sdpEv)
		r.media.register(info.Frame, media)
	}
}

func (r *Replayer) handleMGCP(info *voipcalls.PacketInfo, payload []byte) {
	m, err := parseMGCP(payload)
	if err != nil {
		r.stats.Errors++
		r.log.Debug("skipping undecodable MGCP", "frame", info.Frame, "error", err)
		return
	}
	r.stats.MGCP++
	r.sess.HandleEvent(info, r.mgcpTx.event(info.Frame, info.Src, info.Dst, m))

	if len(m.body) == 0 {
		return
	}
	if summary, media, ok := parseSDP(m.body); ok {
		r.stats.SDP++
		r.sess.HandleEvent(info, &voipcalls.SDPEvent{Summary: summary})
		r.media.register(info.Frame, media)
	}
}

func (r *Replayer) handleRTP(info *voipcalls.PacketInfo, payload []byte) {
	ms, ok := r.media.lookup(info.Src, info.Dst)
	if !ok {
		return
	}
	events, err := decodeRTP(payload, ms)
	if err != nil {
		r.stats.Errors++
		r.log.Debug("skipping undecodable RTP", "frame", info.Frame, "error", err)
		return
	}
	r.stats.RTP++
	for _, ev := range events {
		r.sess.HandleEvent(info, ev)
	}
}

// File replays the capture at path into sess.
func File(ctx context.Context, path string, sess *voipcalls.Session, cfg *Config) (Stats, error) {
	rd, err := Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer func() {
		_ = rd.Close()
	}()
	return New(sess, cfg).Run(ctx, rd)
}
