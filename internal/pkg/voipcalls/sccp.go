package voipcalls

func sccpProtocol(p SCCPPayload) Protocol {
	switch p {
	case SCCPPayloadBSSMAP:
		return ProtoBSSMAP
	case SCCPPayloadRANAP:
		return ProtoRANAP
	}
	return ProtoSCCP
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// handleSCCP correlates connection oriented SCCP and SUA messages by the
// association handle of the transport layer.
func (s *Session) handleSCCP(pkt *PacketInfo, e *SCCPEvent) bool {
	if e.Assoc == 0 {
		return false
	}

	c := s.registry.FindActive(ProtoSCCP, func(c *CallRecord) bool {
		return c.Info.(*SCCPInfo).Assoc == e.Assoc
	})
	if c == nil {
		// The release complete trailing a closed connection is not a call.
		if e.MessageType == SCCPReleaseComplete {
			return false
		}
		proto := sccpProtocol(e.Payload)
		c = s.newCall(proto, pkt, &SCCPInfo{Assoc: e.Assoc, Payload: e.Payload})
		c.State = CallStateSetup
		c.FromIdentity = orUnknown(e.CallingParty)
		c.ToIdentity = orUnknown(e.CalledParty)
	} else {
		if e.CallingParty != "" {
			c.FromIdentity = e.CallingParty
		}
		if e.CalledParty != "" {
			c.ToIdentity = e.CalledParty
		}
		// The upper layer is often only known from a later message.
		if info := c.Info.(*SCCPInfo); info.Payload == SCCPPayloadNone && e.Payload != SCCPPayloadNone {
			info.Payload = e.Payload
			c.Protocol = sccpProtocol(e.Payload)
		}
	}
	s.touch(c, pkt)

	label := e.Label
	if label == "" {
		label = sccpAcronym(e.MessageType)
	}
	comment := e.Comment
	if comment == "" {
		comment = c.Protocol.String() + " " + sccpAcronym(e.MessageType)
	}

	tap := "SCCP"
	if e.SUA {
		tap = "SUA"
	}
	s.addToGraph(pkt, c, tap, label, comment)

	switch e.MessageType {
	case SCCPConnectionConfirm:
		s.setState(c, CallStateInCall)
	case SCCPConnectionRefused:
		s.setState(c, CallStateRejected)
		s.closeCall(c)
	case SCCPReleased, SCCPReleaseComplete:
		s.setState(c, CallStateCompleted)
		s.closeCall(c)
	}
	return true
}
