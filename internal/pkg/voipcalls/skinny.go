package voipcalls

import "fmt"

// Skinny call states (CallStateMessage) in protocol order.
const (
	skinnyOffHook = 1
	skinnyRingIn  = 4
)

var skinnyStates = [...]CallState{
	CallStateNone,
	CallStateSetup,     // OffHook
	CallStateCompleted, // OnHook
	CallStateRinging,   // RingOut
	CallStateSetup,     // RingIn
	CallStateInCall,    // Connected
	CallStateRejected,  // Busy
	CallStateRejected,  // Congestion
	CallStateInCall,    // Hold
	CallStateSetup,     // CallWaiting
	CallStateSetup,     // CallTransfer
	CallStateInCall,    // CallPark
	CallStateSetup,     // Proceed
	CallStateInCall,    // CallRemoteMultiline
	CallStateRejected,  // InvalidNumber
}

func skinnyCallState(st uint32) CallState {
	if int(st) >= len(skinnyStates) {
		return CallStateNone
	}
	return skinnyStates[st]
}

func (s *Session) handleSkinny(pkt *PacketInfo, e *SkinnyEvent) bool {
	if e.CallID == 0 && e.PassThroughPartyID == 0 {
		return false
	}

	// Messages from the call manager carry ids of 0x100 and up.
	phone := pkt.Src
	if e.MessageID >= 0x100 {
		phone = pkt.Dst
	}

	c := s.registry.FindActive(ProtoSkinny, func(c *CallRecord) bool {
		id := c.Info.(*SkinnyInfo).CallID
		return (e.CallID != 0 && id == e.CallID) ||
			(e.PassThroughPartyID != 0 && id == e.PassThroughPartyID)
	})
	if c != nil && c.State.Terminal() &&
		(e.CallState == skinnyOffHook || e.CallState == skinnyRingIn) {
		s.closeCall(c)
		c = nil
	}
	if c == nil {
		id := e.CallID
		if id == 0 {
			id = e.PassThroughPartyID
		}
		c = s.newCall(ProtoSkinny, pkt, &SkinnyInfo{CallID: id})
		c.InitialSpeaker = phone.Addr
	}

	if e.CallingParty != "" {
		c.FromIdentity = e.CallingParty
	}
	if e.CalledParty != "" {
		c.ToIdentity = e.CalledParty
	}
	if st := skinnyCallState(e.CallState); st != CallStateNone {
		s.setState(c, st)
	}
	s.touch(c, pkt)

	var comment string
	switch {
	case e.CallID != 0 && e.PassThroughPartyID != 0:
		comment = fmt.Sprintf("CallId = %d, PTId = %d", e.CallID, e.PassThroughPartyID)
	case e.CallID != 0:
		comment = fmt.Sprintf("CallId = %d, LineId = %d", e.CallID, e.LineID)
	default:
		comment = fmt.Sprintf("PTId = %d", e.PassThroughPartyID)
	}
	s.addToGraph(pkt, c, "SKINNY", e.MessageName, comment)
	return true
}
