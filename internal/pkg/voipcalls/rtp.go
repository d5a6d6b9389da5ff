package voipcalls

import (
	"fmt"
	"strings"
	"time"
)

type rtpKey struct {
	src        Endpoint
	dst        Endpoint
	ssrc       uint32
	setupFrame uint32
}

// rtpStream is one media leg. A leg ends with the end of a telephone event;
// the packets that follow open a new leg with the same key.
type rtpStream struct {
	key       rtpKey
	callNum   int
	first     time.Time
	last      time.Time
	packets   int
	codecs    []string
	event     string
	secure    bool
	item      *GraphItem
	lastFrame uint32
}

func (st *rtpStream) addCodec(name string) {
	for _, c := range st.codecs {
		if c == name {
			return
		}
	}
	st.codecs = append(st.codecs, name)
}

func (st *rtpStream) label() string {
	l := fmt.Sprintf("RTP (%s)", strings.Join(st.codecs, ", "))
	if st.secure {
		l = "S" + l
	}
	if st.event != "" {
		l += " " + st.event
	}
	return l
}

func (st *rtpStream) comment() string {
	proto := "RTP"
	if st.secure {
		proto = "SRTP"
	}
	d := st.last.Sub(st.first)
	return fmt.Sprintf("%s, %d packets. Duration: %d.%03ds SSRC: 0x%X",
		proto, st.packets, int(d/time.Second), int(d%time.Second/time.Millisecond), st.key.ssrc)
}

// rtpStreams holds the open legs by key and every leg of the pass in order.
type rtpStreams struct {
	open map[rtpKey]*rtpStream
	all  []*rtpStream
}

func newRTPStreams() rtpStreams {
	return rtpStreams{open: make(map[rtpKey]*rtpStream)}
}

func (r *rtpStreams) reset() {
	for i := range r.all {
		r.all[i] = nil
	}
	r.all = nil
	r.open = make(map[rtpKey]*rtpStream)
}

func (r *rtpStreams) start(key rtpKey) *rtpStream {
	st := &rtpStream{key: key, callNum: -1}
	r.open[key] = st
	r.all = append(r.all, st)
	return st
}

func (r *rtpStreams) end(st *rtpStream) {
	if r.open[st.key] == st {
		delete(r.open, st.key)
	}
}

// handleRTPEvent remembers the telephone event for the RTP tap of the same
// packet, which always runs after it.
func (s *Session) handleRTPEvent(_ *PacketInfo, e *RTPEventEvent) bool {
	s.scratch.rtpEvent.valid = true
	s.scratch.rtpEvent.event = e.Event
	s.scratch.rtpEvent.end = e.End
	return true
}

func (s *Session) handleRTP(pkt *PacketInfo, e *RTPEvent) bool {
	if e.SetupFrame == 0 {
		return false
	}
	ev := s.scratch.rtpEvent
	s.scratch.rtpEvent.valid = false

	key := rtpKey{src: pkt.Src, dst: pkt.Dst, ssrc: e.SSRC, setupFrame: e.SetupFrame}
	st, ok := s.rtp.open[key]
	if !ok {
		// Event end packets are repeated; the first one already closed the leg.
		if ev.valid && ev.end {
			return false
		}
		st = s.rtp.start(key)
		st.first = pkt.Time
		st.secure = e.Secure
		if item, ok := s.graph.Lookup(e.SetupFrame); ok {
			st.callNum = item.CallNum
		}
	}
	if st.lastFrame == pkt.Frame {
		return true
	}
	st.lastFrame = pkt.Frame
	st.last = pkt.Time
	st.packets++

	name := e.PayloadName
	if name == "" {
		name = PayloadTypeName(e.PayloadType)
	}
	st.addCodec(name)
	if ev.valid {
		st.event = rtpEventName(ev.event)
	}

	if st.item == nil && st.callNum >= 0 && s.registry.ByCallNum(st.callNum) != nil {
		proto := "RTP"
		if st.secure {
			proto = "SRTP"
		}
		st.item = s.graph.Append(s.newItem(pkt, st.callNum, proto, "", "", pkt.Src, pkt.Dst, LineBearer))
	}
	// The item itself follows merges; only its text is refreshed here.
	if st.item != nil {
		st.item.Label = st.label()
		st.item.Comment = st.comment()
	}

	if ev.valid && ev.end {
		s.rtp.end(st)
	}
	return true
}
