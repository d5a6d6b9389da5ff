package voipcalls

import (
	"fmt"
	"strings"
)

// hasSignal reports whether the comma separated event or signal list
// contains name. Package prefixes ("L/hd") and parameters ("rg(to=3)")
// are ignored.
func hasSignal(name, list string) bool {
	if list == "" {
		return false
	}
	for _, tok := range strings.Split(list, ",") {
		tok = strings.TrimSpace(tok)
		if i := strings.IndexByte(tok, '('); i >= 0 {
			tok = tok[:i]
		}
		if i := strings.LastIndexByte(tok, '/'); i >= 0 {
			tok = tok[i+1:]
		}
		if strings.EqualFold(tok, name) {
			return true
		}
	}
	return false
}

// dialedDigits keeps the digits, '#' and '*' of an observed event list.
func dialedDigits(events string) string {
	var b strings.Builder
	for i := 0; i < len(events); i++ {
		switch ch := events[i]; {
		case ch >= '0' && ch <= '9', ch == '#', ch == '*':
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// callerID extracts the name from a ci(...) caller id signal, e.g.
// `ci(1/08/14/20,5551234,"John Doe")`.
func callerID(signals string) (string, bool) {
	parts := strings.SplitN(signals, `"`, 3)
	if len(parts) != 3 || !strings.Contains(parts[0], "ci(") {
		return "", false
	}
	return parts[1], true
}

func (s *Session) handleMGCP(pkt *PacketInfo, e *MGCPEvent) bool {
	verb := strings.ToUpper(e.Verb)
	var c *CallRecord

	switch {
	case e.IsRequest && !e.IsDuplicate:
		c = s.registry.FindActive(ProtoMGCP, func(c *CallRecord) bool {
			if !strings.EqualFold(c.Info.(*MGCPInfo).EndpointID, e.EndpointID) {
				return false
			}
			// A finished call keeps its endpoint for a short grace period
			// so trailing commands still land on it.
			if c.State.Terminal() && pkt.Time.Sub(c.StopTime) > s.cfg.MGCPReuseGrace {
				s.closeCall(c)
				return false
			}
			return true
		})
		if c == nil {
			var fromEndpoint bool
			switch {
			case verb == "NTFY" && hasSignal("hd", e.ObservedEvents):
				fromEndpoint = true
			case verb == "CRCX":
				fromEndpoint = false
			default:
				return false
			}
			c = s.newCall(ProtoMGCP, pkt, &MGCPInfo{EndpointID: e.EndpointID, FromEndpoint: fromEndpoint})
			c.State = CallStateSetup
			if fromEndpoint {
				c.FromIdentity = e.EndpointID
			} else {
				c.ToIdentity = e.EndpointID
			}
		}

	case !e.IsRequest || e.IsDuplicate:
		// Responses and retransmissions follow the request they refer to.
		if e.RequestFrame == 0 {
			return false
		}
		item, ok := s.graph.Lookup(e.RequestFrame)
		if !ok {
			return false
		}
		c = s.registry.ByCallNum(item.CallNum)
		if c == nil || c.Protocol != ProtoMGCP {
			return false
		}
	}

	info := c.Info.(*MGCPInfo)
	var label string

	if e.IsRequest {
		switch verb {
		case "NTFY":
			if e.HasObserved {
				label = fmt.Sprintf("%s ObsEvt:%s", verb, e.ObservedEvents)
				s.mgcpNotify(c, info, e)
			}
		case "RQNT":
			s.mgcpRequestNotify(c, info, e)
			digitMap := ""
			if e.HasDigitMap {
				digitMap = " DigitMap "
			}
			if e.HasSignals {
				label = fmt.Sprintf("%s%sSigReq:%s", verb, digitMap, e.SignalRequests)
			} else {
				label = verb + digitMap
			}
		case "DLCX":
			if !info.FromEndpoint && c.State.setupPhase() {
				s.setState(c, CallStateCancelled)
			}
		}
		if label == "" {
			label = verb
		}
	} else {
		label = fmt.Sprintf("%d (%s)", e.ResponseCode, verb)
	}

	kind := "Response"
	if e.IsRequest {
		kind = "Request"
	}
	dup := ""
	if e.IsDuplicate {
		dup = " Duplicate"
	}
	comment := fmt.Sprintf("MGCP %s %s%s", info.EndpointID, kind, dup)

	s.touch(c, pkt)
	s.addToGraph(pkt, c, "MGCP", label, comment)
	return true
}

func (s *Session) mgcpNotify(c *CallRecord, info *MGCPInfo, e *MGCPEvent) {
	if info.FromEndpoint {
		// The first digits reported by the calling endpoint are the number.
		if c.ToIdentity == "" {
			c.ToIdentity = dialedDigits(e.ObservedEvents)
		}
	} else if hasSignal("hd", e.ObservedEvents) {
		s.setState(c, CallStateInCall)
	}

	if hasSignal("hu", e.ObservedEvents) {
		if c.State.setupPhase() {
			s.setState(c, CallStateCancelled)
		} else {
			s.setState(c, CallStateCompleted)
		}
	}
}

func (s *Session) mgcpRequestNotify(c *CallRecord, info *MGCPInfo, e *MGCPEvent) {
	// An empty signal list to a ringing caller means the far end answered.
	if info.FromEndpoint && e.HasSignals && e.SignalRequests == "" && c.State == CallStateRinging {
		s.setState(c, CallStateInCall)
	}
	if hasSignal("rg", e.SignalRequests) || hasSignal("rt", e.SignalRequests) {
		s.setState(c, CallStateRinging)
	}
	if (hasSignal("ro", e.SignalRequests) || hasSignal("bz", e.SignalRequests)) && c.State.setupPhase() {
		s.setState(c, CallStateRejected)
	}
	if !info.FromEndpoint {
		if name, ok := callerID(e.SignalRequests); ok {
			c.FromIdentity = name
		}
	}
}
