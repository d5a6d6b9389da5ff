package voipcalls

import (
	"fmt"
	"strings"
)

func (s *Session) handleSIP(pkt *PacketInfo, e *SIPEvent) bool {
	if e.CallID == "" {
		return false
	}
	method := strings.ToUpper(e.Method)

	c := s.registry.FindSIP(e.CallID)
	if c != nil && method == "INVITE" && c.State.Terminal() {
		// A retransmitted INVITE of the finished transaction still belongs
		// to it; a new transaction starts a new call.
		if info := c.Info.(*SIPInfo); e.CSeq != info.InviteCSeq {
			s.closeCall(c)
			c = nil
		}
	}

	if c == nil {
		if !e.IsRequest() {
			return false
		}
		if !s.cfg.SIPFlowShowAll && method != "INVITE" {
			return false
		}
		c = s.newCall(ProtoSIP, pkt, &SIPInfo{
			CallID:     e.CallID,
			InviteCSeq: e.CSeq,
		})
		c.FromIdentity = e.From
		c.ToIdentity = e.To
		c.Comment = method
	}

	info := c.Info.(*SIPInfo)
	var label, comment string

	if !e.IsRequest() {
		label = fmt.Sprintf("%d %s", e.ResponseCode, e.ReasonPhrase)
		comment = fmt.Sprintf("SIP Status %d %s", e.ResponseCode, e.ReasonPhrase)
		info.LastResponse = e.ResponseCode
		s.sipResponse(pkt, c, info, e)
	} else {
		label = method
		comment = s.sipRequest(pkt, c, info, e, method)
	}

	s.touch(c, pkt)
	s.addToGraph(pkt, c, "SIP", label, comment)
	return true
}

func (s *Session) sipResponse(pkt *PacketInfo, c *CallRecord, info *SIPInfo, e *SIPEvent) {
	// Only responses to the tracked INVITE travelling back to the caller
	// move the dialog.
	if e.CSeq != info.InviteCSeq || pkt.Dst.Addr != c.InitialSpeaker {
		return
	}
	if e.CSeqMethod != "" && !strings.EqualFold(e.CSeqMethod, "INVITE") {
		return
	}
	if info.DialogState != SIPInviteSent {
		return
	}
	switch code := e.ResponseCode; {
	case code == 180 || code == 183:
		if c.State == CallStateSetup {
			s.setState(c, CallStateRinging)
		}
	case code >= 200 && code < 300:
		info.DialogState = SIP200Received
	case code >= 300:
		s.setState(c, CallStateRejected)
	}
}

func (s *Session) sipRequest(pkt *PacketInfo, c *CallRecord, info *SIPInfo, e *SIPEvent, method string) string {
	fromCaller := pkt.Src.Addr == c.InitialSpeaker

	if method != "INVITE" {
		if c.FromIdentity == "" {
			c.FromIdentity = e.From
		}
		if c.ToIdentity == "" {
			c.ToIdentity = e.To
		}
	}

	switch {
	case method == "INVITE" && fromCaller:
		info.InviteCSeq = e.CSeq
		if info.DialogState == SIPNoState || info.DialogState == SIPCancelSent {
			info.DialogState = SIPInviteSent
		}
		if c.State == CallStateNone {
			s.setState(c, CallStateSetup)
		}
		return fmt.Sprintf("SIP From: %s To:%s", c.FromIdentity, c.ToIdentity)

	case method == "ACK" && fromCaller && e.CSeq == info.InviteCSeq &&
		info.DialogState == SIP200Received && c.State.setupPhase():
		s.setState(c, CallStateInCall)
		return fmt.Sprintf("SIP Request INVITE ACK 200 CSeq:%d", e.CSeq)

	case method == "BYE":
		s.setState(c, CallStateCompleted)
		return fmt.Sprintf("SIP Request BYE CSeq:%d", e.CSeq)

	case method == "CANCEL" && fromCaller && e.CSeq == info.InviteCSeq &&
		info.DialogState == SIPInviteSent && c.State.setupPhase():
		s.setState(c, CallStateCancelled)
		info.DialogState = SIPCancelSent
		return fmt.Sprintf("SIP Request CANCEL CSeq:%d", e.CSeq)
	}

	return fmt.Sprintf("SIP %s From: %s To:%s CSeq:%d", method, c.FromIdentity, c.ToIdentity, e.CSeq)
}
