package voipcalls

import "strings"

// RedrawFlag marks a protocol tap that changed the call list or graph.
type RedrawFlag uint32

const (
	RedrawSIP RedrawFlag = 1 << iota
	RedrawISUP
	RedrawMTP3
	RedrawH225
	RedrawH245
	RedrawQ931
	RedrawMGCP
	RedrawACTrace
	RedrawSDP
	RedrawRTP
	RedrawRTPEvent
	RedrawT38
	RedrawSCCP
	RedrawSUA
	RedrawH248
	RedrawMEGACO
	RedrawUNISTIM
	RedrawSkinny
	RedrawIAX2
	RedrawVoIP
)

var redrawNames = []struct {
	flag RedrawFlag
	name string
}{
	{RedrawSIP, "sip"},
	{RedrawISUP, "isup"},
	{RedrawMTP3, "mtp3"},
	{RedrawH225, "h225"},
	{RedrawH245, "h245"},
	{RedrawQ931, "q931"},
	{RedrawMGCP, "mgcp"},
	{RedrawACTrace, "actrace"},
	{RedrawSDP, "sdp"},
	{RedrawRTP, "rtp"},
	{RedrawRTPEvent, "rtpevent"},
	{RedrawT38, "t38"},
	{RedrawSCCP, "sccp"},
	{RedrawSUA, "sua"},
	{RedrawH248, "h248"},
	{RedrawMEGACO, "megaco"},
	{RedrawUNISTIM, "unistim"},
	{RedrawSkinny, "skinny"},
	{RedrawIAX2, "iax2"},
	{RedrawVoIP, "voip"},
}

func (f RedrawFlag) String() string {
	var names []string
	for _, rn := range redrawNames {
		if f&rn.flag != 0 {
			names = append(names, rn.name)
		}
	}
	return strings.Join(names, "|")
}

// Redraw batches refresh requests of one dissection pass so the UI is
// notified at most once per flush.
type Redraw struct {
	pending  RedrawFlag
	callback func(RedrawFlag)
}

// Set marks the taps in f as dirty.
func (r *Redraw) Set(f RedrawFlag) {
	r.pending |= f
}

// Pending returns the taps marked since the last flush.
func (r *Redraw) Pending() RedrawFlag {
	return r.pending
}

// Flush invokes the callback once with the accumulated taps and clears
// them. Nothing happens when no tap is dirty.
func (r *Redraw) Flush() bool {
	if r.pending == 0 {
		return false
	}
	f := r.pending
	r.pending = 0
	if r.callback != nil {
		r.callback(f)
	}
	return true
}

// Clear drops pending taps without notifying.
func (r *Redraw) Clear() {
	r.pending = 0
}
