package voipcalls

import "fmt"

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func isLocationTag(tag int) bool {
	return tag >= RASLocationRequest && tag <= RASLocationReject
}

func (s *Session) handleH225(pkt *PacketInfo, e *H225Event) bool {
	var c *CallRecord

	if e.GUID.IsZero() {
		// Only the location exchange travels without a call identifier; it
		// is tied together by the RAS sequence number.
		if e.MsgType != H225RAS || !isLocationTag(e.MsgTag) {
			return false
		}
		if e.MsgTag != RASLocationRequest && !e.RequestAvailable {
			return false
		}
		c = s.registry.FindActive(ProtoH323, func(c *CallRecord) bool {
			info := c.Info.(*H323Info)
			if !info.GUID.IsZero() || info.RequestSeqNum != e.RequestSeqNum {
				return false
			}
			if e.MsgTag == RASLocationRequest {
				return info.SetupAddr == pkt.Src.Addr
			}
			return info.SetupAddr == pkt.Dst.Addr
		})
		if c == nil && e.MsgTag != RASLocationRequest {
			return false
		}
	} else {
		c = s.registry.FindActive(ProtoH323, func(c *CallRecord) bool {
			return c.Info.(*H323Info).GUID == e.GUID
		})
	}

	if c == nil {
		info := &H323Info{GUID: e.GUID, CRV: -1, CRV2: -1}
		if e.GUID.IsZero() {
			info.SetupAddr = pkt.Src.Addr
		}
		c = s.newCall(ProtoH323, pkt, info)
		c.State = CallStateUnknown
	}
	info := c.Info.(*H323Info)

	s.scratch.h225.valid = true
	s.scratch.h225.callNum = c.CallNum
	s.scratch.h225.msgType = e.MsgType
	s.scratch.h225.csType = e.CSType
	s.scratch.h225.faststart = e.Faststart

	s.touch(c, pkt)

	var label, comment string
	switch e.MsgType {
	case H225CS:
		if !e.H245Addr.IsZero() {
			info.IsH245 = true
			info.addH245Addr(e.H245Addr)
		}
		if e.CSType != H225ReleaseComplete {
			info.H245Tunneling = e.H245Tunneling
		}
		label = e.FrameLabel
		if label == "" {
			label = h225CSName(e.CSType)
		}
		comment = fmt.Sprintf("H225 TunnH245:%s FS:%s", onOff(info.H245Tunneling), onOff(e.Faststart))

		switch e.CSType {
		case H225Setup:
			info.FaststartSetup = e.Faststart
			if info.SetupAddr == "" {
				info.SetupAddr = pkt.Src.Addr
			}
			if c.State == CallStateUnknown || c.State == CallStateNone {
				c.State = CallStateSetup
			}
			comment = fmt.Sprintf("H225 From: %s To:%s  TunnH245:%s FS:%s",
				c.FromIdentity, c.ToIdentity, onOff(info.H245Tunneling), onOff(e.Faststart))
		case H225Connect:
			s.setState(c, CallStateInCall)
			if e.Faststart {
				info.FaststartProc = true
			}
		case H225ReleaseComplete:
			switch {
			case c.State.setupPhase() && info.SetupAddr == pkt.Src.Addr:
				s.setState(c, CallStateCancelled)
			case c.State.setupPhase():
				s.setState(c, CallStateRejected)
			default:
				s.setState(c, CallStateCompleted)
			}
			comment = "H225 No Q931 Rel Cause"
		case H225Alerting:
			if c.State == CallStateSetup {
				s.setState(c, CallStateRinging)
			}
			if e.Faststart {
				info.FaststartProc = true
			}
		case H225Progress, H225CallProceeding:
			if e.Faststart {
				info.FaststartProc = true
			}
		}

	case H225RAS:
		label = rasMessageName(e.MsgTag)
		comment = "H225 RAS"
		switch e.MsgTag {
		case RASLocationRequest:
			if !e.IsDuplicate {
				c.ToIdentity = e.DialedDigits
				info.RequestSeqNum = e.RequestSeqNum
			}
			fallthrough
		case RASLocationConfirm:
			if e.DialedDigits != "" {
				comment = "H225 RAS dialedDigits: " + e.DialedDigits
			}
		}

	default:
		label = "H225: Unknown"
	}

	s.appendOrAdd(pkt, c, "H225", label, comment)
	s.flushH245(pkt.Frame)
	return true
}

func (s *Session) handleQ931(pkt *PacketInfo, e *Q931Event) bool {
	switch {
	case s.scratch.h225.valid:
		return s.q931OnH225(pkt, e)
	case s.scratch.actrace.valid:
		return s.handleACISDN(pkt, e)
	}
	return s.q931ByCRV(pkt, e)
}

// q931OnH225 binds the Q.931 layer of a frame the H.225 tap already graphed.
func (s *Session) q931OnH225(pkt *PacketInfo, e *Q931Event) bool {
	h := s.scratch.h225
	s.scratch.h225.valid = false

	c := s.registry.ByCallNum(h.callNum)
	if c == nil {
		return false
	}
	info, ok := c.Info.(*H323Info)
	if !ok {
		return false
	}

	if e.HasCRV {
		switch {
		case info.CRV < 0:
			info.CRV = e.CRV
		case info.CRV != e.CRV:
			info.CRV2 = e.CRV
		}
	}
	if e.CallingNumber != "" {
		c.FromIdentity = e.CallingNumber
	}
	if e.CalledNumber != "" {
		c.ToIdentity = e.CalledNumber
	}

	if h.msgType != H225CS {
		return true
	}

	var comment string
	switch h.csType {
	case H225Setup:
		// A location exchange for the dialled number was graphed as its own
		// call before the Setup carrying the GUID showed up.
		if c.ToIdentity != "" {
			lrq := s.registry.FindActive(ProtoH323, func(o *CallRecord) bool {
				return o != c && o.Info.(*H323Info).GUID.IsZero() && o.ToIdentity == c.ToIdentity
			})
			if lrq != nil {
				s.merge(lrq, c)
			}
		}
		comment = fmt.Sprintf("H225 From: %s To:%s  TunnH245:%s FS:%s",
			c.FromIdentity, c.ToIdentity, onOff(info.H245Tunneling), onOff(h.faststart))
	case H225ReleaseComplete:
		if e.Cause > 0 && e.Cause != 0xFF {
			comment = fmt.Sprintf("H225 Q931 Rel Cause (%d):%s", e.Cause, causeText(e.Cause, "<unknown>"))
		} else {
			comment = "H225 No Q931 Rel Cause"
		}
	}
	if comment != "" {
		s.graph.ChangeLabel(pkt.Frame, "", comment)
	}
	return true
}

// q931ByCRV attaches a Q.931 message without an H.225 layer to the H.323
// call that owns its call reference. H.245 labels buffered for the frame
// are appended to its item.
func (s *Session) q931ByCRV(pkt *PacketInfo, e *Q931Event) bool {
	if !e.HasCRV {
		return false
	}
	c := s.registry.FindActive(ProtoH323, func(c *CallRecord) bool {
		return c.Info.(*H323Info).hasCRV(e.CRV)
	})
	if c == nil {
		return false
	}
	if _, ok := s.graph.Lookup(pkt.Frame); !ok {
		s.touch(c, pkt)
		s.addToGraph(pkt, c, "Q931", q931MessageName(e.MessageType), "")
	}
	s.flushH245(pkt.Frame)
	return true
}

func (s *Session) handleH245(pkt *PacketInfo, e *H245Event) bool {
	c := s.registry.FindActive(ProtoH323, func(c *CallRecord) bool {
		for _, a := range c.Info.(*H323Info).H245Addrs {
			if a == pkt.Src || a == pkt.Dst {
				return true
			}
		}
		return false
	})
	if c == nil {
		// Tunnelled: the H.225 or Q.931 tap of this frame picks it up.
		return s.scratch.addH245Label(e.Label, e.Comment, s.cfg.H245MaxLabels)
	}
	s.touch(c, pkt)
	s.appendOrAdd(pkt, c, "H245", e.Label, e.Comment)
	return true
}
