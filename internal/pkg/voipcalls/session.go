package voipcalls

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/endorses/callflow/internal/pkg/logger"
	"github.com/google/uuid"
)

// Stats are the aggregate counters of a pass.
type Stats struct {
	Calls     int `json:"calls" yaml:"calls"`
	Completed int `json:"completed" yaml:"completed"`
	Rejected  int `json:"rejected" yaml:"rejected"`
	Packets   int `json:"packets" yaml:"packets"`
}

// Session is the correlation context of one dissection pass: the call
// registry, the flow graph, the redraw bits, the per-packet scratchpad and
// the media stream tables. It is not safe for concurrent use.
type Session struct {
	cfg      Config
	registry *Registry
	graph    *Graph
	redraw   Redraw
	scratch  scratchpad
	rtp      rtpStreams
	stats    Stats
	passID   string
	baseTime time.Time
	log      *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithRedraw registers the callback invoked by EndPass.
func WithRedraw(fn func(RedrawFlag)) Option {
	return func(s *Session) {
		s.redraw.callback = fn
	}
}

// WithLogger replaces the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// NewSession returns an empty session. A nil cfg uses DefaultConfig.
func NewSession(cfg *Config, opts ...Option) *Session {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Session{cfg: *cfg}
	s.cfg.normalize()
	s.graph = NewGraph()
	s.registry = NewRegistry(s.graph)
	s.rtp = newRTPStreams()
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.WithGroup("voipcalls")
	}
	s.passID = uuid.NewString()
	return s
}

// Reset drops every call, graph item, buffered label and stream and zeroes
// the counters. It is safe to call on an empty session.
func (s *Session) Reset() {
	s.registry.Reset()
	s.graph.Reset()
	s.scratch.clear()
	s.rtp.reset()
	s.redraw.Clear()
	s.stats = Stats{}
	s.baseTime = time.Time{}
	s.passID = uuid.NewString()
	s.log.Debug("session reset", "pass_id", s.passID)
}

// BeginPacket starts a new packet. Scratch state left by a previous frame
// is discarded; calling it again for the same frame is a no-op.
func (s *Session) BeginPacket(pkt *PacketInfo) {
	if s.baseTime.IsZero() && !pkt.Time.IsZero() {
		s.baseTime = pkt.Time
	}
	s.scratch.begin(pkt.Frame)
}

// HandleEvent correlates one decoded record of pkt. It reports whether the
// record was attached to a call. Records that cannot be correlated are
// dropped without error.
func (s *Session) HandleEvent(pkt *PacketInfo, ev Event) bool {
	if pkt == nil || ev == nil {
		return false
	}
	s.BeginPacket(pkt)

	var ok bool
	switch e := ev.(type) {
	case *SIPEvent:
		ok = s.handleSIP(pkt, e)
	case *SDPEvent:
		ok = s.handleSDP(pkt, e)
	case *MTP3Event:
		ok = s.handleMTP3(pkt, e)
	case *ISUPEvent:
		ok = s.handleISUP(pkt, e)
	case *H225Event:
		ok = s.handleH225(pkt, e)
	case *Q931Event:
		ok = s.handleQ931(pkt, e)
	case *H245Event:
		ok = s.handleH245(pkt, e)
	case *ACTraceEvent:
		ok = s.handleACTrace(pkt, e)
	case *MGCPEvent:
		ok = s.handleMGCP(pkt, e)
	case *SCCPEvent:
		ok = s.handleSCCP(pkt, e)
	case *H248Event:
		ok = s.handleH248(pkt, e)
	case *UNISTIMEvent:
		ok = s.handleUNISTIM(pkt, e)
	case *SkinnyEvent:
		ok = s.handleSkinny(pkt, e)
	case *IAX2Event:
		ok = s.handleIAX2(pkt, e)
	case *RTPEvent:
		ok = s.handleRTP(pkt, e)
	case *RTPEventEvent:
		ok = s.handleRTPEvent(pkt, e)
	case *T38Event:
		ok = s.handleT38(pkt, e)
	case *VoIPEvent:
		ok = s.handleVoIP(pkt, e)
	default:
		s.log.Debug("unhandled event type", "type", fmt.Sprintf("%T", ev), "frame", pkt.Frame)
	}
	if ok {
		s.redraw.Set(ev.Tap())
	}
	return ok
}

// EndPass notifies the redraw callback once if anything changed.
func (s *Session) EndPass() bool {
	return s.redraw.Flush()
}

// Calls returns the call list in creation order.
func (s *Session) Calls() []*CallRecord {
	return s.registry.Calls()
}

func (s *Session) Registry() *Registry {
	return s.registry
}

func (s *Session) Graph() *Graph {
	return s.graph
}

func (s *Session) Stats() Stats {
	return s.stats
}

// PassID identifies the current pass in logs; it changes on every Reset.
func (s *Session) PassID() string {
	return s.passID
}

func (s *Session) Config() Config {
	return s.cfg
}

func (s *Session) newCall(proto Protocol, pkt *PacketInfo, info ProtInfo) *CallRecord {
	c := s.registry.Create(proto, pkt, info)
	s.stats.Calls++
	s.log.Debug("call created",
		"pass_id", s.passID,
		"call_num", c.CallNum,
		"protocol", proto.String(),
		"key", CorrelationKey(c),
		"frame", pkt.Frame)
	return c
}

// closeCall retires c's key so the next matching event starts a new call.
func (s *Session) closeCall(c *CallRecord) {
	s.registry.Close(c, c.State)
	s.log.Debug("call closed", "pass_id", s.passID, "call_num", c.CallNum, "state", c.State.String())
}

// merge folds provisional into authoritative.
func (s *Session) merge(provisional, authoritative *CallRecord) {
	n := s.registry.Merge(provisional, authoritative)
	s.stats.Calls--
	s.log.Debug("calls merged",
		"pass_id", s.passID,
		"from", provisional.CallNum,
		"into", authoritative.CallNum,
		"items", n)
}

// touch records pkt as the latest packet of c.
func (s *Session) touch(c *CallRecord, pkt *PacketInfo) {
	c.StopFrame = pkt.Frame
	c.StopTime = pkt.Time
	c.Packets++
	s.stats.Packets++
}

// setState moves c to st. Terminal states are sticky: once c has ended no
// further transition is applied and no counter is raised twice.
func (s *Session) setState(c *CallRecord, st CallState) bool {
	if c.State == st || c.State.Terminal() {
		return false
	}
	prev := c.State
	c.State = st
	switch st {
	case CallStateCompleted:
		s.stats.Completed++
	case CallStateRejected:
		s.stats.Rejected++
	}
	s.log.Debug("call state changed",
		"pass_id", s.passID,
		"call_num", c.CallNum,
		"from", prev.String(),
		"to", st.String())
	return true
}

func (s *Session) timeString(t time.Time) string {
	if s.cfg.TimeFormat == TimeFormatAbsolute {
		return t.Format("2006-01-02 15:04:05.000000")
	}
	if s.baseTime.IsZero() || t.IsZero() {
		return "0.000000"
	}
	return fmt.Sprintf("%.6f", t.Sub(s.baseTime).Seconds())
}

func (s *Session) newItem(pkt *PacketInfo, callNum int, proto, label, comment string, src, dst Endpoint, weight int) *GraphItem {
	return &GraphItem{
		Frame:      pkt.Frame,
		Time:       pkt.Time,
		TimeStr:    s.timeString(pkt.Time),
		Src:        src,
		Dst:        dst,
		Protocol:   proto,
		Label:      label,
		Comment:    comment,
		CallNum:    callNum,
		LineWeight: weight,
	}
}

// addToGraph appends a signalling item for pkt on call c and attaches an
// SDP summary left pending for this frame.
func (s *Session) addToGraph(pkt *PacketInfo, c *CallRecord, proto, label, comment string) *GraphItem {
	return s.addToGraphDir(pkt, c, proto, label, comment, pkt.Src, pkt.Dst)
}

func (s *Session) addToGraphDir(pkt *PacketInfo, c *CallRecord, proto, label, comment string, src, dst Endpoint) *GraphItem {
	item := s.graph.Append(s.newItem(pkt, c.CallNum, proto, label, comment, src, dst, LineSignalling))
	if sdp := s.scratch.takeSDP(); sdp != "" {
		s.graph.AppendToLabel(pkt.Frame, sdp, "")
	}
	return item
}

// appendOrAdd extends the frame's item when another tap already graphed it.
func (s *Session) appendOrAdd(pkt *PacketInfo, c *CallRecord, proto, label, comment string) {
	if !s.graph.AppendToLabel(pkt.Frame, label, comment) {
		s.addToGraph(pkt, c, proto, label, comment)
	}
}

// flushH245 appends buffered H.245 labels to the frame's item.
func (s *Session) flushH245(frame uint32) {
	for _, l := range s.scratch.takeH245Labels() {
		s.graph.AppendToLabel(frame, l.label, l.comment)
	}
}
