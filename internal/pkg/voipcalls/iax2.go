package voipcalls

// iax2State maps a full frame onto the call state it implies.
func iax2State(e *IAX2Event) CallState {
	switch e.FrameType {
	case IAX2FrameIAX:
		switch e.Subclass {
		case IAX2CmdNew, IAX2CmdAccept:
			return CallStateSetup
		case IAX2CmdHangup:
			return CallStateCompleted
		case IAX2CmdReject:
			return CallStateRejected
		}
	case IAX2FrameControl:
		switch e.Subclass {
		case IAX2CtrlRinging:
			return CallStateRinging
		case IAX2CtrlAnswer:
			return CallStateInCall
		case IAX2CtrlHangup:
			return CallStateCompleted
		case IAX2CtrlBusy, IAX2CtrlCongestion:
			return CallStateRejected
		}
	}
	return CallStateNone
}

func isIAX2New(e *IAX2Event) bool {
	return e.FrameType == IAX2FrameIAX && e.Subclass == IAX2CmdNew
}

func (s *Session) handleIAX2(pkt *PacketInfo, e *IAX2Event) bool {
	// Mini frames carry media only.
	if !e.FullFrame {
		return false
	}

	c := s.registry.FindActive(ProtoIAX2, func(c *CallRecord) bool {
		info := c.Info.(*IAX2Info)
		return info.SCallNo == e.SCallNo || info.SCallNo == e.DCallNo
	})
	if c != nil && isIAX2New(e) && c.State.Terminal() {
		s.closeCall(c)
		c = nil
	}
	if c == nil {
		if !isIAX2New(e) {
			return false
		}
		c = s.newCall(ProtoIAX2, pkt, &IAX2Info{SCallNo: e.SCallNo, DCallNo: e.DCallNo})
		c.FromIdentity = e.CallingParty
		c.ToIdentity = e.CalledParty
	}
	info := c.Info.(*IAX2Info)
	// The callee's number is only learnt from its first reply.
	if info.DCallNo == 0 && e.SCallNo != info.SCallNo {
		info.DCallNo = e.SCallNo
	}

	if st := iax2State(e); st != CallStateNone {
		s.setState(c, st)
	}
	s.touch(c, pkt)

	label := e.MessageName
	if label == "" {
		label = "IAX2"
	}
	s.addToGraph(pkt, c, "IAX2", label, "")
	return true
}
