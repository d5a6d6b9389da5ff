package voipcalls

// ProtInfo is the protocol specific part of a CallRecord. Exactly one
// concrete type exists per protocol family; the record owns it.
type ProtInfo interface {
	protocol() Protocol
}

// SIPDialogState tracks the INVITE transaction of a SIP call.
type SIPDialogState int

const (
	SIPNoState SIPDialogState = iota
	SIPInviteSent
	SIP200Received
	SIPCancelSent
)

type SIPInfo struct {
	CallID       string
	DialogState  SIPDialogState
	InviteCSeq   uint32
	LastResponse int
}

func (*SIPInfo) protocol() Protocol { return ProtoSIP }

type ISUPInfo struct {
	CIC uint16
	OPC uint32
	DPC uint32
	NI  uint8
}

func (*ISUPInfo) protocol() Protocol { return ProtoISUP }

// GUID is the H.225 call identifier.
type GUID [16]byte

// IsZero reports whether the GUID is all zeros, i.e. absent.
func (g GUID) IsZero() bool {
	return g == GUID{}
}

type H323Info struct {
	GUID           GUID
	SetupAddr      string
	H245Addrs      []Endpoint
	FaststartSetup bool
	FaststartProc  bool
	H245Tunneling  bool
	IsH245         bool
	CRV            int32
	CRV2           int32
	RequestSeqNum  uint16
}

func (*H323Info) protocol() Protocol { return ProtoH323 }

func (h *H323Info) addH245Addr(e Endpoint) {
	for _, a := range h.H245Addrs {
		if a == e {
			return
		}
	}
	h.H245Addrs = append(h.H245Addrs, e)
}

func (h *H323Info) hasCRV(crv int32) bool {
	if crv < 0 {
		return false
	}
	return h.CRV == crv || h.CRV2 == crv
}

type MGCPInfo struct {
	EndpointID   string
	FromEndpoint bool
}

func (*MGCPInfo) protocol() Protocol { return ProtoMGCP }

type ACISDNInfo struct {
	CRV   int32
	Trunk int
}

func (*ACISDNInfo) protocol() Protocol { return ProtoACISDN }

type ACCASInfo struct {
	BChannel int
	Trunk    int
}

func (*ACCASInfo) protocol() Protocol { return ProtoACCAS }

// T38Info describes a T.38 leg seen without any signalling.
type T38Info struct {
	Src Endpoint
	Dst Endpoint
}

func (*T38Info) protocol() Protocol { return ProtoT38 }

func (t *T38Info) matches(pkt *PacketInfo) bool {
	return (t.Src == pkt.Src && t.Dst == pkt.Dst) || (t.Src == pkt.Dst && t.Dst == pkt.Src)
}

type SCCPInfo struct {
	Assoc   uint64
	Payload SCCPPayload
}

func (*SCCPInfo) protocol() Protocol { return ProtoSCCP }

type H248Info struct {
	Assoc     uint64
	ContextID uint32
	Terms     []string
	sawTerm   bool
}

func (*H248Info) protocol() Protocol { return ProtoH248 }

type UNISTIMInfo struct {
	TermID   uint32
	Phone    string
	Server   string
	Digits   []byte
	OffHook  bool
	StreamUp bool
}

func (*UNISTIMInfo) protocol() Protocol { return ProtoUNISTIM }

type SkinnyInfo struct {
	CallID uint32
}

func (*SkinnyInfo) protocol() Protocol { return ProtoSkinny }

type IAX2Info struct {
	SCallNo uint16
	DCallNo uint16
}

func (*IAX2Info) protocol() Protocol { return ProtoIAX2 }

// CommonInfo backs calls reported through the generic VoIP record.
type CommonInfo struct {
	CallID       string
	ProtocolName string
}

func (*CommonInfo) protocol() Protocol { return ProtoVoIP }

// releaseProtInfo drops everything the record's protocol payload owns.
func releaseProtInfo(c *CallRecord) {
	switch info := c.Info.(type) {
	case *H323Info:
		info.H245Addrs = nil
	case *H248Info:
		info.Terms = nil
	case *UNISTIMInfo:
		info.Digits = nil
	case *SIPInfo, *ISUPInfo, *MGCPInfo, *ACISDNInfo, *ACCASInfo,
		*T38Info, *SCCPInfo, *SkinnyInfo, *IAX2Info, *CommonInfo, nil:
		// nothing held beyond the struct itself
	}
	c.Info = nil
}
