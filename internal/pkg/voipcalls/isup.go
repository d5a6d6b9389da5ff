package voipcalls

import "fmt"

// handleMTP3 leaves the routing label for the ISUP tap of the same packet.
func (s *Session) handleMTP3(_ *PacketInfo, e *MTP3Event) bool {
	s.scratch.mtp3.valid = true
	s.scratch.mtp3.opc = e.OPC
	s.scratch.mtp3.dpc = e.DPC
	s.scratch.mtp3.ni = e.NI
	return true
}

func (s *Session) handleISUP(pkt *PacketInfo, e *ISUPEvent) bool {
	mtp3 := s.scratch.mtp3
	if !mtp3.valid {
		return false
	}

	var forward bool
	c := s.registry.FindActive(ProtoISUP, func(c *CallRecord) bool {
		info := c.Info.(*ISUPInfo)
		if info.CIC != e.CIC || info.NI != mtp3.ni {
			return false
		}
		switch {
		case info.OPC == mtp3.opc && info.DPC == mtp3.dpc:
			forward = true
		case info.OPC == mtp3.dpc && info.DPC == mtp3.opc:
			forward = false
		default:
			return false
		}
		return true
	})

	// An IAM on a circuit whose call is past setup means that call is over.
	if c != nil && e.MessageType == ISUPIAM && !c.State.setupPhase() {
		s.closeCall(c)
		c = nil
	}

	if c == nil {
		if e.MessageType != ISUPIAM {
			return false
		}
		c = s.newCall(ProtoISUP, pkt, &ISUPInfo{
			CIC: e.CIC,
			OPC: mtp3.opc,
			DPC: mtp3.dpc,
			NI:  mtp3.ni,
		})
		c.State = CallStateUnknown
		c.FromIdentity = e.CallingNumber
		c.ToIdentity = e.CalledNumber
		forward = true
	}

	s.touch(c, pkt)

	var comment string
	switch c.Packets {
	case 1:
		if e.CallingNumber != "" && e.CalledNumber != "" {
			comment = fmt.Sprintf("Call from %s to %s", e.CallingNumber, e.CalledNumber)
		}
	case 2:
		comment = fmt.Sprintf("%d-%d -> %d-%d. Cic:%d", mtp3.ni, mtp3.opc, mtp3.ni, mtp3.dpc, e.CIC)
	}

	switch e.MessageType {
	case ISUPIAM:
		if c.State == CallStateUnknown {
			c.State = CallStateSetup
		}
	case ISUPACM:
		if c.State == CallStateSetup {
			s.setState(c, CallStateRinging)
		}
	case ISUPConnect, ISUPAnswer:
		s.setState(c, CallStateInCall)
	case ISUPRelease:
		switch {
		case c.State.setupPhase() && forward:
			s.setState(c, CallStateCancelled)
		case c.State.setupPhase():
			s.setState(c, CallStateRejected)
		case c.State == CallStateInCall:
			s.setState(c, CallStateCompleted)
		}
		comment = fmt.Sprintf("Cause %d - %s", e.Cause, causeText(e.Cause, "(Unknown)"))
	}

	s.addToGraph(pkt, c, "ISUP", isupAcronym(e.MessageType), comment)
	return true
}
