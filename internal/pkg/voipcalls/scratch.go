package voipcalls

// scratchpad carries context from one tap to the next tap of the same
// packet, e.g. MTP3 point codes for ISUP or the H.225 call for Q.931. It
// is cleared whenever a packet with a different frame number begins.
type scratchpad struct {
	frame uint32

	mtp3 struct {
		valid bool
		opc   uint32
		dpc   uint32
		ni    uint8
	}

	h225 struct {
		valid     bool
		callNum   int
		csType    H225CSType
		msgType   H225MsgType
		faststart bool
	}

	h245 struct {
		labels []pendingLabel
	}

	sdp struct {
		summary string
	}

	actrace struct {
		valid     bool
		trunk     int
		direction int
	}

	rtpEvent struct {
		valid bool
		event int
		end   bool
	}
}

type pendingLabel struct {
	label   string
	comment string
}

// begin moves the scratchpad to frame, dropping what an earlier packet left.
func (sp *scratchpad) begin(frame uint32) {
	if sp.frame == frame {
		return
	}
	sp.clear()
	sp.frame = frame
}

func (sp *scratchpad) clear() {
	*sp = scratchpad{}
}

// addH245Label buffers a label for the current frame, up to limit entries.
func (sp *scratchpad) addH245Label(label, comment string, limit int) bool {
	if len(sp.h245.labels) >= limit {
		return false
	}
	sp.h245.labels = append(sp.h245.labels, pendingLabel{label: label, comment: comment})
	return true
}

// takeH245Labels returns and forgets the buffered labels.
func (sp *scratchpad) takeH245Labels() []pendingLabel {
	labels := sp.h245.labels
	sp.h245.labels = nil
	return labels
}

// takeSDP returns and forgets the pending SDP summary.
func (sp *scratchpad) takeSDP() string {
	s := sp.sdp.summary
	sp.sdp.summary = ""
	return s
}
