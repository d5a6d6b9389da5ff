package voipcalls

import "fmt"

// handleSDP annotates the frame's graph item with the media summary. When
// the signalling tap of this frame has not run yet the summary waits in the
// scratchpad and is attached by the next item added for the frame.
func (s *Session) handleSDP(pkt *PacketInfo, e *SDPEvent) bool {
	summary := fmt.Sprintf("SDP (%s)", e.Summary)
	if s.graph.AppendToLabel(pkt.Frame, summary, "") {
		return true
	}
	s.scratch.sdp.summary = summary
	return true
}
