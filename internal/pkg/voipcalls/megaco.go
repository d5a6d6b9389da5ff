package voipcalls

import (
	"fmt"
	"slices"
	"strings"
)

// h248Verb lowercases a command name and drops the request/reply suffix so
// "Subtract", "SubtractReq" and "SUBTRACT" compare equal.
func h248Verb(cmd string) string {
	v := strings.ToLower(strings.TrimSpace(cmd))
	v = strings.TrimSuffix(v, "req")
	v = strings.TrimSuffix(v, "reply")
	return v
}

func (h *H248Info) addTerm(id string) {
	if id == "" || slices.Contains(h.Terms, id) {
		return
	}
	h.Terms = append(h.Terms, id)
	h.sawTerm = true
}

func (h *H248Info) removeTerm(id string) {
	if id == "*" {
		h.Terms = h.Terms[:0]
		return
	}
	h.Terms = slices.DeleteFunc(h.Terms, func(t string) bool { return t == id })
}

func (h *H248Info) toIdentity() string {
	var b strings.Builder
	for _, t := range h.Terms {
		b.WriteByte(' ')
		b.WriteString(t)
	}
	return b.String()
}

// handleH248 correlates H.248 and MEGACO commands by context. Context ids
// are only unique on the association that allocated them.
func (s *Session) handleH248(pkt *PacketInfo, e *H248Event) bool {
	switch e.ContextID {
	case H248NullContext, H248ChooseContext, H248AllContexts:
		return false
	}

	c := s.registry.FindActive(ProtoH248, func(c *CallRecord) bool {
		info := c.Info.(*H248Info)
		return info.Assoc == e.Assoc && info.ContextID == e.ContextID
	})
	if c == nil {
		mgc, mgw := pkt.Src, pkt.Dst
		if e.IsReply {
			mgc, mgw = pkt.Dst, pkt.Src
		}
		name := e.MGW
		if name == "" {
			name = mgw.Addr
		}
		c = s.newCall(ProtoH248, pkt, &H248Info{Assoc: e.Assoc, ContextID: e.ContextID})
		c.InitialSpeaker = mgc.Addr
		c.FromIdentity = fmt.Sprintf("%s : %08x", name, e.ContextID)
	}
	info := c.Info.(*H248Info)

	verb := h248Verb(e.Command)
	for _, id := range e.TermIDs {
		if verb == "subtract" {
			info.removeTerm(id)
		} else {
			info.addTerm(id)
		}
	}
	c.ToIdentity = info.toIdentity()
	s.touch(c, pkt)

	label := e.Command
	if label == "" {
		label = "unknown Msg"
	}
	comment := fmt.Sprintf("TrxId = %d, CtxId = %08x", e.TransactionID, e.ContextID)
	proto := "H248"
	if e.Text {
		proto = "MEGACO"
	}
	s.addToGraph(pkt, c, proto, label, comment)

	// The context is gone once its last termination has been subtracted.
	if verb == "subtract" && info.sawTerm && len(info.Terms) == 0 {
		s.setState(c, CallStateCompleted)
		s.closeCall(c)
	}
	return true
}
