package voipcalls

import "fmt"

func isDialKey(k byte) bool {
	return (k >= '0' && k <= '9') || k == '*' || k == '#'
}

// handleUNISTIM tracks a Nortel UNISTIM phone session. The phone side is
// the source of the message that opened the call.
func (s *Session) handleUNISTIM(pkt *PacketInfo, e *UNISTIMEvent) bool {
	c := s.registry.FindActive(ProtoUNISTIM, func(c *CallRecord) bool {
		info := c.Info.(*UNISTIMInfo)
		if info.TermID != e.TermID {
			return false
		}
		return (info.Phone == pkt.Src.Addr && info.Server == pkt.Dst.Addr) ||
			(info.Phone == pkt.Dst.Addr && info.Server == pkt.Src.Addr)
	})
	if c == nil {
		if e.Hook != HookOff && e.Key == 0 {
			return false
		}
		c = s.newCall(ProtoUNISTIM, pkt, &UNISTIMInfo{
			TermID: e.TermID,
			Phone:  pkt.Src.Addr,
			Server: pkt.Dst.Addr,
		})
		c.FromIdentity = pkt.Src.Addr
	}
	info := c.Info.(*UNISTIMInfo)
	s.touch(c, pkt)

	if e.Key != 0 && isDialKey(e.Key) {
		info.Digits = append(info.Digits, e.Key)
		c.ToIdentity = string(info.Digits)
		s.setState(c, CallStateSetup)
	}

	if e.Hook == HookOff {
		info.OffHook = true
		s.setState(c, CallStateSetup)
	}

	switch e.Stream {
	case StreamOpened:
		info.StreamUp = true
		s.setState(c, CallStateInCall)
	case StreamClosed:
		info.StreamUp = false
	}

	label := e.Label
	if label == "" {
		label = "UNISTIM"
	}
	s.addToGraph(pkt, c, "UNISTIM", label, fmt.Sprintf("UNISTIM termid:%x", e.TermID))

	if e.Hook == HookOn {
		info.OffHook = false
		if c.State == CallStateInCall {
			s.setState(c, CallStateCompleted)
		} else {
			s.setState(c, CallStateCancelled)
		}
		s.closeCall(c)
	}
	return true
}
