package voipcalls

import "fmt"

const t38MediaOnly = "T38 Media only"

// t38Item renders the graph row for e. ok is false for records that are
// not drawn (plain HDLC or non-ECM data).
func t38Item(e *T38Event) (label, comment string, ok bool) {
	if e.MsgType == T38Indicator {
		name := lookupName(t30IndicatorNames, e.Indicator, "Ukn (0x%02X)")
		return name, "t38:t30 Ind:" + name, true
	}

	data := lookupName(t30DataNames, e.DataValue, "Ukn (0x%02X)")
	fcf := int(e.FacsimileControl)
	switch e.FieldType {
	case T38FieldHDLCFcsOK, T38FieldHDLCFcsOKSigEnd:
		label = lookupName(t30FCFShort, fcf, "Ukn (0x%02X)")
		comment = fmt.Sprintf("t38:%s:HDLC:%s", data, lookupName(t30FCFLong, fcf, label))
		if e.Desc != "" {
			label += " " + e.Desc
		}
		if e.DescComment != "" {
			comment += " " + e.DescComment
		}
		return label, comment, true
	case T38FieldHDLCFcsBad:
		return "fcs-BAD", fmt.Sprintf("WARNING: received t38:%s:HDLC:fcs-BAD", data), true
	case T38FieldHDLCFcsBadSigEnd:
		return "fcs-BAD-sig-end", fmt.Sprintf("WARNING: received t38:%s:HDLC:fcs-BAD-sig-end", data), true
	case T38FieldT4NonECMSigEnd:
		return "t4-non-ecm-data:" + data, "", true
	}
	return "", "", false
}

// t38Call finds the call that set the leg up, or the media-only call for
// the address pair, creating the latter on first sight.
func (s *Session) t38Call(pkt *PacketInfo, e *T38Event) *CallRecord {
	if e.SetupFrame != 0 {
		if item, ok := s.graph.Lookup(e.SetupFrame); ok {
			if c := s.registry.ByCallNum(item.CallNum); c != nil {
				return c
			}
		}
	}
	c := s.registry.FindActive(ProtoT38, func(c *CallRecord) bool {
		return c.Info.(*T38Info).matches(pkt)
	})
	if c == nil {
		c = s.newCall(ProtoT38, pkt, &T38Info{Src: pkt.Src, Dst: pkt.Dst})
		c.State = CallStateUnknown
		c.FromIdentity = t38MediaOnly
		c.ToIdentity = t38MediaOnly
		c.Comment = t38MediaOnly
	}
	return c
}

func (s *Session) handleT38(pkt *PacketInfo, e *T38Event) bool {
	label, comment, ok := t38Item(e)
	if !ok {
		return false
	}
	c := s.t38Call(pkt, e)
	s.touch(c, pkt)

	if e.MsgType == T38Data && e.FieldType == T38FieldT4NonECMSigEnd && e.FirstT4Frame != 0 {
		// The page data started at FirstT4Frame; draw it there.
		data := lookupName(t30DataNames, e.DataValue, "Ukn (0x%02X)")
		dur := pkt.Time.Sub(e.FirstT4Time).Seconds()
		comment = fmt.Sprintf("t38:t4-non-ecm-data:%s Duration: %.2fs %s", data, dur, e.DescComment)
		at := *pkt
		at.Frame = e.FirstT4Frame
		at.Time = e.FirstT4Time
		s.graph.InsertSorted(s.newItem(&at, c.CallNum, "T38", label, comment, pkt.Src, pkt.Dst, LineSignalling))
		return true
	}

	s.addToGraph(pkt, c, "T38", label, comment)
	return true
}
