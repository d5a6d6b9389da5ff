package voipcalls

// Registry is the ordered list of call records of one pass. SIP calls are
// additionally indexed by Call-ID; every other protocol is matched by
// scanning in creation order.
type Registry struct {
	calls    []*CallRecord
	sipIndex map[string]*CallRecord
	nextNum  int
	graph    *Graph
}

// NewRegistry returns an empty registry whose merges retag items of g.
func NewRegistry(g *Graph) *Registry {
	return &Registry{
		sipIndex: make(map[string]*CallRecord),
		graph:    g,
	}
}

// Create appends a new active call for pkt and assigns the next call number.
func (r *Registry) Create(proto Protocol, pkt *PacketInfo, info ProtInfo) *CallRecord {
	c := &CallRecord{
		CallNum:        r.nextNum,
		Protocol:       proto,
		InitialSpeaker: pkt.Src.Addr,
		Active:         Active,
		StartFrame:     pkt.Frame,
		StartTime:      pkt.Time,
		StopFrame:      pkt.Frame,
		StopTime:       pkt.Time,
		Info:           info,
	}
	r.nextNum++
	r.calls = append(r.calls, c)
	if sip, ok := info.(*SIPInfo); ok {
		r.sipIndex[sip.CallID] = c
	}
	return c
}

// FindActive returns the first active call of the protocol family that
// satisfies match.
func (r *Registry) FindActive(proto Protocol, match func(*CallRecord) bool) *CallRecord {
	fam := proto.family()
	for _, c := range r.calls {
		if c.Active == Active && c.Protocol.family() == fam && match(c) {
			return c
		}
	}
	return nil
}

// FindSIP returns the active SIP call with callID.
func (r *Registry) FindSIP(callID string) *CallRecord {
	c, ok := r.sipIndex[callID]
	if !ok || c.Active != Active {
		return nil
	}
	return c
}

// ByCallNum returns the call numbered n, active or not.
func (r *Registry) ByCallNum(n int) *CallRecord {
	for _, c := range r.calls {
		if c.CallNum == n {
			return c
		}
	}
	return nil
}

// Close sets the final state and retires the record's key. The record stays
// listed for display but is never matched again.
func (r *Registry) Close(c *CallRecord, final CallState) {
	c.State = final
	c.Active = Inactive
	if sip, ok := c.Info.(*SIPInfo); ok && r.sipIndex[sip.CallID] == c {
		delete(r.sipIndex, sip.CallID)
	}
}

// Merge folds provisional into authoritative: graph items are retagged,
// their count is added to the authoritative packet count and provisional is
// removed from the registry. It returns the number of retagged items.
func (r *Registry) Merge(provisional, authoritative *CallRecord) int {
	if provisional == nil || authoritative == nil || provisional == authoritative {
		return 0
	}
	n := 0
	if r.graph != nil {
		n = r.graph.Retag(provisional.CallNum, authoritative.CallNum)
	}
	authoritative.Packets += n
	r.remove(provisional)
	return n
}

func (r *Registry) remove(c *CallRecord) {
	for i, cur := range r.calls {
		if cur != c {
			continue
		}
		copy(r.calls[i:], r.calls[i+1:])
		r.calls[len(r.calls)-1] = nil
		r.calls = r.calls[:len(r.calls)-1]
		break
	}
	if sip, ok := c.Info.(*SIPInfo); ok && r.sipIndex[sip.CallID] == c {
		delete(r.sipIndex, sip.CallID)
	}
	releaseProtInfo(c)
}

// Calls returns the records in creation order. Callers must not modify it.
func (r *Registry) Calls() []*CallRecord {
	return r.calls
}

func (r *Registry) Len() int {
	return len(r.calls)
}

// ActiveKeys counts active records per correlation key.
func (r *Registry) ActiveKeys() map[string]int {
	out := make(map[string]int)
	for _, c := range r.calls {
		if c.Active != Active {
			continue
		}
		out[CorrelationKey(c)]++
	}
	return out
}

// Reset releases every record and restarts call numbering.
func (r *Registry) Reset() {
	for i, c := range r.calls {
		releaseProtInfo(c)
		r.calls[i] = nil
	}
	r.calls = nil
	r.sipIndex = make(map[string]*CallRecord)
	r.nextNum = 0
}
