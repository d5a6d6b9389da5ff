package voipcalls

import "time"

// Event is a decoded per-packet record handed over by a protocol decoder.
// Tap names the redraw bit the record's correlator raises.
type Event interface {
	Tap() RedrawFlag
}

// SIPEvent carries one SIP request or response. Method is empty for
// responses.
type SIPEvent struct {
	CallID       string
	Method       string
	ResponseCode int
	ReasonPhrase string
	CSeq         uint32
	CSeqMethod   string
	From         string
	To           string
}

func (*SIPEvent) Tap() RedrawFlag { return RedrawSIP }

// IsRequest reports whether the message is a request.
func (e *SIPEvent) IsRequest() bool { return e.Method != "" }

// SDPEvent carries the media summary of an SDP body, e.g. "g711U g729".
type SDPEvent struct {
	Summary string
}

func (*SDPEvent) Tap() RedrawFlag { return RedrawSDP }

// MTP3Event carries the routing label of an MTP3 (or M3UA) packet.
type MTP3Event struct {
	OPC uint32
	DPC uint32
	NI  uint8
}

func (*MTP3Event) Tap() RedrawFlag { return RedrawMTP3 }

// ISUP message types the correlator reacts to.
const (
	ISUPIAM     uint8 = 1
	ISUPACM     uint8 = 6
	ISUPConnect uint8 = 7
	ISUPAnswer  uint8 = 9
	ISUPRelease uint8 = 12
	ISUPRLC     uint8 = 16
)

// ISUPEvent carries one ISUP message. Cause is 0 when absent.
type ISUPEvent struct {
	MessageType   uint8
	CIC           uint16
	CallingNumber string
	CalledNumber  string
	Cause         int
}

func (*ISUPEvent) Tap() RedrawFlag { return RedrawISUP }

// H225MsgType tells the RAS channel from call signalling.
type H225MsgType int

const (
	H225RAS H225MsgType = iota
	H225CS
	H225Other
)

// H.225 call signalling message kinds.
type H225CSType int

const (
	H225Setup H225CSType = iota
	H225CallProceeding
	H225Connect
	H225Alerting
	H225Information
	H225ReleaseComplete
	H225Facility
	H225Progress
	H225Empty
	H225Status
	H225StatusInquiry
	H225SetupAck
	H225Notify
	H225OtherCS
)

// RAS message tags of the location exchange, which carries no call GUID.
const (
	RASLocationRequest = 18
	RASLocationConfirm = 19
	RASLocationReject  = 20
)

// H225Event carries one H.225 RAS or call signalling message.
type H225Event struct {
	MsgType          H225MsgType
	MsgTag           int
	CSType           H225CSType
	GUID             GUID
	Faststart        bool
	H245Tunneling    bool
	IsDuplicate      bool
	RequestAvailable bool
	RequestSeqNum    uint16
	DialedDigits     string

	// H245Addr is set when the message advertises a separate H.245 channel.
	H245Addr   Endpoint
	FrameLabel string
}

func (*H225Event) Tap() RedrawFlag { return RedrawH225 }

// Q.931 message types.
const (
	Q931Alerting        uint8 = 0x01
	Q931CallProceeding  uint8 = 0x02
	Q931Progress        uint8 = 0x03
	Q931Setup           uint8 = 0x05
	Q931Connect         uint8 = 0x07
	Q931SetupAck        uint8 = 0x0d
	Q931ConnectAck      uint8 = 0x0f
	Q931Disconnect      uint8 = 0x45
	Q931Release         uint8 = 0x4d
	Q931ReleaseComplete uint8 = 0x5a
	Q931Facility        uint8 = 0x62
	Q931Notify          uint8 = 0x6e
	Q931Status          uint8 = 0x7d
)

// Q931Event carries one Q.931 message. CRV is only meaningful when HasCRV
// is set; Cause is 0 when absent.
type Q931Event struct {
	MessageType   uint8
	HasCRV        bool
	CRV           int32
	CallingNumber string
	CalledNumber  string
	Cause         int
}

func (*Q931Event) Tap() RedrawFlag { return RedrawQ931 }

// H245Event carries one H.245 message, tunnelled or on its own channel.
type H245Event struct {
	Label   string
	Comment string
}

func (*H245Event) Tap() RedrawFlag { return RedrawH245 }

// ACTraceType selects the AudioCodes trunk trace variant.
type ACTraceType int

const (
	ACTraceISDN ACTraceType = iota
	ACTraceCAS
)

// ACTraceEvent carries one AudioCodes trunk trace record. Direction 1 means
// the message was received from the PSTN side.
type ACTraceEvent struct {
	Type      ACTraceType
	Trunk     int
	Direction int
	BChannel  int
	CASLabel  string
}

func (*ACTraceEvent) Tap() RedrawFlag { return RedrawACTrace }

// MGCPEvent carries one MGCP command or response. RequestFrame is the frame
// of the request a response or duplicate belongs to, 0 when unknown.
type MGCPEvent struct {
	IsRequest      bool
	IsDuplicate    bool
	RequestFrame   uint32
	Verb           string
	TransactionID  uint32
	EndpointID     string
	ResponseCode   int
	ObservedEvents string
	HasObserved    bool
	SignalRequests string
	HasSignals     bool
	HasDigitMap    bool
}

func (*MGCPEvent) Tap() RedrawFlag { return RedrawMGCP }

// SCCPPayload is the upper layer carried by an SCCP/SUA connection.
type SCCPPayload int

const (
	SCCPPayloadNone SCCPPayload = iota
	SCCPPayloadBSSMAP
	SCCPPayloadRANAP
)

// SCCP connection oriented message types.
const (
	SCCPConnectionRequest uint8 = 0x01
	SCCPConnectionConfirm uint8 = 0x02
	SCCPConnectionRefused uint8 = 0x03
	SCCPReleased          uint8 = 0x04
	SCCPReleaseComplete   uint8 = 0x05
)

// SCCPEvent carries one connection oriented SCCP or SUA message. Assoc is
// the association handle assigned by the SCCP layer.
type SCCPEvent struct {
	Assoc        uint64
	MessageType  uint8
	Payload      SCCPPayload
	CallingParty string
	CalledParty  string
	Label        string
	Comment      string
	SUA          bool
}

func (e *SCCPEvent) Tap() RedrawFlag {
	if e.SUA {
		return RedrawSUA
	}
	return RedrawSCCP
}

// Special H.248 context identifiers.
const (
	H248NullContext   uint32 = 0
	H248ChooseContext uint32 = 0xFFFFFFFE
	H248AllContexts   uint32 = 0xFFFFFFFF
)

// H248Event carries one H.248/MEGACO command. Assoc scopes context ids to
// the transport association they were allocated on.
type H248Event struct {
	Assoc         uint64
	ContextID     uint32
	TransactionID uint32
	IsReply       bool
	Command       string
	TermIDs       []string
	MGW           string
	Text          bool
}

func (e *H248Event) Tap() RedrawFlag {
	if e.Text {
		return RedrawMEGACO
	}
	return RedrawH248
}

// HookState is the hook change a UNISTIM message reports.
type HookState uint8

const (
	HookUnchanged HookState = iota
	HookOff
	HookOn
)

// StreamState is the audio stream change a UNISTIM message reports.
type StreamState uint8

const (
	StreamUnchanged StreamState = iota
	StreamOpened
	StreamClosed
)

// UNISTIMEvent carries one UNISTIM message. Key is 0 when no key was
// pressed.
type UNISTIMEvent struct {
	TermID uint32
	Key    byte
	Hook   HookState
	Stream StreamState
	Label  string
}

func (*UNISTIMEvent) Tap() RedrawFlag { return RedrawUNISTIM }

// SkinnyEvent carries one SCCP (Skinny) client control message.
type SkinnyEvent struct {
	MessageID          uint32
	MessageName        string
	CallID             uint32
	PassThroughPartyID uint32
	LineID             uint32
	CallState          uint32
	CallingParty       string
	CalledParty        string
}

func (*SkinnyEvent) Tap() RedrawFlag { return RedrawSkinny }

// IAX2 frame types.
const (
	IAX2FrameControl uint8 = 4
	IAX2FrameIAX     uint8 = 6
)

// IAX2 subclasses the correlator reacts to.
const (
	IAX2CmdNew    uint8 = 1
	IAX2CmdHangup uint8 = 5
	IAX2CmdReject uint8 = 6
	IAX2CmdAccept uint8 = 7

	IAX2CtrlHangup     uint8 = 1
	IAX2CtrlRinging    uint8 = 3
	IAX2CtrlAnswer     uint8 = 4
	IAX2CtrlBusy       uint8 = 5
	IAX2CtrlCongestion uint8 = 8
)

// IAX2Event carries one IAX2 frame.
type IAX2Event struct {
	FullFrame    bool
	FrameType    uint8
	Subclass     uint8
	SCallNo      uint16
	DCallNo      uint16
	CallingParty string
	CalledParty  string
	MessageName  string
}

func (*IAX2Event) Tap() RedrawFlag { return RedrawIAX2 }

// RTPEvent carries one RTP packet. SetupFrame is the frame of the
// signalling message that announced the stream, 0 when unknown.
// PayloadName is the rtpmap encoding of a dynamic payload type.
type RTPEvent struct {
	SSRC        uint32
	PayloadType uint8
	PayloadName string
	Sequence    uint16
	Timestamp   uint32
	Marker      bool
	SetupFrame  uint32
	Secure      bool
}

func (*RTPEvent) Tap() RedrawFlag { return RedrawRTP }

// RTPEventEvent carries an RFC 2833 telephone event.
type RTPEventEvent struct {
	Event int
	End   bool
}

func (*RTPEventEvent) Tap() RedrawFlag { return RedrawRTPEvent }

// T38MsgType tells T.30 indicators from data packets.
type T38MsgType int

const (
	T38Indicator T38MsgType = iota
	T38Data
)

// T.38 data field types.
const (
	T38FieldHDLCData         = 0
	T38FieldHDLCSigEnd       = 1
	T38FieldHDLCFcsOK        = 2
	T38FieldHDLCFcsBad       = 3
	T38FieldHDLCFcsOKSigEnd  = 4
	T38FieldHDLCFcsBadSigEnd = 5
	T38FieldT4NonECMData     = 6
	T38FieldT4NonECMSigEnd   = 7
)

// T38Event carries one T.38 IFP packet.
type T38Event struct {
	SetupFrame       uint32
	MsgType          T38MsgType
	Indicator        int
	DataValue        int
	FieldType        int
	FacsimileControl uint8
	Desc             string
	DescComment      string
	FirstT4Frame     uint32
	FirstT4Time      time.Time
}

func (*T38Event) Tap() RedrawFlag { return RedrawT38 }

// VoIPEvent is the generic record for protocols that track their own calls.
type VoIPEvent struct {
	ProtocolName string
	CallID       string
	State        CallState
	Active       ActiveState
	FromIdentity string
	ToIdentity   string
	CallComment  string
	FrameLabel   string
	FrameComment string
}

func (*VoIPEvent) Tap() RedrawFlag { return RedrawVoIP }
