package voipcalls

import "fmt"

// pstn stands in for the far end of an AudioCodes trunk trace.
var pstn = Endpoint{Addr: "PSTN"}

// acPath orients a trunk trace message: direction 1 was received from
// the PSTN, anything else was sent towards it.
func acPath(pkt *PacketInfo, direction int) (src, dst Endpoint) {
	if direction == 1 {
		return pstn, pkt.Src
	}
	return pkt.Src, pstn
}

func (s *Session) handleACTrace(pkt *PacketInfo, e *ACTraceEvent) bool {
	s.scratch.actrace.valid = true
	s.scratch.actrace.trunk = e.Trunk
	s.scratch.actrace.direction = e.Direction

	if e.Type != ACTraceCAS {
		// ISDN traces are graphed by the Q.931 tap of the same frame.
		return true
	}

	c := s.registry.FindActive(ProtoACCAS, func(c *CallRecord) bool {
		info := c.Info.(*ACCASInfo)
		return info.BChannel == e.BChannel && info.Trunk == e.Trunk
	})
	if c == nil {
		c = s.newCall(ProtoACCAS, pkt, &ACCASInfo{BChannel: e.BChannel, Trunk: e.Trunk})
		c.FromIdentity = "N/A"
		c.ToIdentity = "N/A"
		c.State = CallStateSetup
		if e.Direction == 1 {
			c.InitialSpeaker = pstn.Addr
		}
	}
	s.touch(c, pkt)

	src, dst := acPath(pkt, e.Direction)
	comment := fmt.Sprintf("AC_CAS  trunk:%d", e.Trunk)
	s.addToGraphDir(pkt, c, "AC_CAS", e.CASLabel, comment, src, dst)
	return true
}

// handleACISDN correlates a Q.931 message carried in an AudioCodes trunk
// trace, keyed by trunk and call reference.
func (s *Session) handleACISDN(pkt *PacketInfo, e *Q931Event) bool {
	ac := s.scratch.actrace
	src, dst := acPath(pkt, ac.direction)

	c := s.registry.FindActive(ProtoACISDN, func(c *CallRecord) bool {
		info := c.Info.(*ACISDNInfo)
		return info.Trunk == ac.trunk && info.CRV == e.CRV
	})
	if c != nil && e.MessageType == Q931Setup && c.State.Terminal() {
		s.closeCall(c)
		c = nil
	}
	if c == nil {
		c = s.newCall(ProtoACISDN, pkt, &ACISDNInfo{CRV: e.CRV, Trunk: ac.trunk})
		c.InitialSpeaker = src.Addr
		c.FromIdentity = e.CallingNumber
		c.ToIdentity = e.CalledNumber
	}
	s.touch(c, pkt)

	comment := fmt.Sprintf("AC_ISDN trunk:%d", ac.trunk)
	switch e.MessageType {
	case Q931Setup:
		if c.State == CallStateNone {
			c.State = CallStateSetup
		}
	case Q931Alerting:
		if c.State == CallStateSetup {
			s.setState(c, CallStateRinging)
		}
	case Q931Connect:
		s.setState(c, CallStateInCall)
	case Q931ReleaseComplete, Q931Release, Q931Disconnect:
		switch {
		case c.State.setupPhase() && c.InitialSpeaker == src.Addr:
			s.setState(c, CallStateCancelled)
		case c.State.setupPhase():
			s.setState(c, CallStateRejected)
		default:
			s.setState(c, CallStateCompleted)
		}
		if e.Cause > 0 {
			comment = fmt.Sprintf("AC_ISDN trunk:%d Cause: %s", ac.trunk, causeText(e.Cause, "<unknown>"))
		}
	}

	s.addToGraphDir(pkt, c, "AC_ISDN", q931MessageName(e.MessageType), comment, src, dst)
	return true
}
