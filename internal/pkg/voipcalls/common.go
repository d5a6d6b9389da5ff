package voipcalls

// handleVoIP applies a record from a decoder that tracks call state itself.
// The record is authoritative for state, activity and identities.
func (s *Session) handleVoIP(pkt *PacketInfo, e *VoIPEvent) bool {
	if e.ProtocolName == "" || e.CallID == "" {
		return false
	}

	c := s.registry.FindActive(ProtoVoIP, func(c *CallRecord) bool {
		info := c.Info.(*CommonInfo)
		return info.ProtocolName == e.ProtocolName && info.CallID == e.CallID
	})
	if c == nil {
		c = s.newCall(ProtoVoIP, pkt, &CommonInfo{CallID: e.CallID, ProtocolName: e.ProtocolName})
	}

	if e.FromIdentity != "" {
		c.FromIdentity = e.FromIdentity
	}
	if e.ToIdentity != "" {
		c.ToIdentity = e.ToIdentity
	}
	if e.CallComment != "" {
		c.Comment = e.CallComment
	}
	if e.State != CallStateNone {
		s.setState(c, e.State)
	}
	s.touch(c, pkt)

	label := e.FrameLabel
	if label == "" {
		label = "VoIP msg"
	}
	s.addToGraph(pkt, c, e.ProtocolName, label, e.FrameComment)

	if e.Active == Inactive {
		s.closeCall(c)
	}
	return true
}
