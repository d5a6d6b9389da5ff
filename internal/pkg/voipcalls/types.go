// Package voipcalls correlates per-packet telephony signalling events into
// logical calls and a frame-ordered call-flow graph.
//
// A Session is driven by a host that decodes packets and hands the
// resulting event records to Session.HandleEvent in capture order. The
// session is single-threaded: it must not be shared between goroutines.
package voipcalls

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Protocol identifies the signalling family a call was built from.
type Protocol int

const (
	ProtoSIP Protocol = iota
	ProtoISUP
	ProtoH323
	ProtoMGCP
	ProtoACISDN
	ProtoACCAS
	ProtoT38
	ProtoH248
	ProtoSCCP
	ProtoBSSMAP
	ProtoRANAP
	ProtoUNISTIM
	ProtoSkinny
	ProtoIAX2
	ProtoVoIP
)

func (p Protocol) String() string {
	switch p {
	case ProtoSIP:
		return "SIP"
	case ProtoISUP:
		return "ISUP"
	case ProtoH323:
		return "H.323"
	case ProtoMGCP:
		return "MGCP"
	case ProtoACISDN:
		return "AC_ISDN"
	case ProtoACCAS:
		return "AC_CAS"
	case ProtoT38:
		return "T.38"
	case ProtoH248:
		return "H.248"
	case ProtoSCCP:
		return "SCCP"
	case ProtoBSSMAP:
		return "BSSMAP"
	case ProtoRANAP:
		return "RANAP"
	case ProtoUNISTIM:
		return "UNISTIM"
	case ProtoSkinny:
		return "SKINNY"
	case ProtoIAX2:
		return "IAX2"
	case ProtoVoIP:
		return "VoIP"
	default:
		return "UNKNOWN"
	}
}

// family folds the SCCP payload variants onto SCCP for key matching.
func (p Protocol) family() Protocol {
	switch p {
	case ProtoBSSMAP, ProtoRANAP:
		return ProtoSCCP
	}
	return p
}

// CallState is the lifecycle state shared by every protocol.
type CallState int

const (
	CallStateNone CallState = iota
	CallStateSetup
	CallStateRinging
	CallStateInCall
	CallStateCancelled
	CallStateCompleted
	CallStateRejected
	CallStateUnknown
)

func (cs CallState) String() string {
	switch cs {
	case CallStateNone:
		return ""
	case CallStateSetup:
		return "CALL SETUP"
	case CallStateRinging:
		return "RINGING"
	case CallStateInCall:
		return "IN CALL"
	case CallStateCancelled:
		return "CANCELLED"
	case CallStateCompleted:
		return "COMPLETED"
	case CallStateRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the state ends the call.
func (cs CallState) Terminal() bool {
	return cs == CallStateCancelled || cs == CallStateCompleted || cs == CallStateRejected
}

// setupPhase reports whether the call has not been answered yet.
func (cs CallState) setupPhase() bool {
	return cs == CallStateSetup || cs == CallStateRinging
}

// ActiveState tells whether a record may still be matched by its key.
type ActiveState int

const (
	Active ActiveState = iota
	Inactive
)

func (a ActiveState) String() string {
	if a == Inactive {
		return "inactive"
	}
	return "active"
}

// Endpoint is one side of a packet: an IP address or a symbolic name such
// as "PSTN", plus a port (0 when the transport has none).
type Endpoint struct {
	Addr string
	Port uint16
}

func (e Endpoint) String() string {
	if e.Port == 0 {
		return e.Addr
	}
	return net.JoinHostPort(e.Addr, strconv.Itoa(int(e.Port)))
}

// IsZero reports whether the endpoint carries no address.
func (e Endpoint) IsZero() bool {
	return e.Addr == "" && e.Port == 0
}

// PacketInfo is the packet context shared by every event of one frame.
type PacketInfo struct {
	Frame     uint32
	Time      time.Time
	Src       Endpoint
	Dst       Endpoint
	Transport string
}

// CallRecord is one logical call, however many protocol legs compose it.
type CallRecord struct {
	CallNum        int
	Protocol       Protocol
	InitialSpeaker string
	FromIdentity   string
	ToIdentity     string
	Comment        string
	State          CallState
	Active         ActiveState
	StartFrame     uint32
	StartTime      time.Time
	StopFrame      uint32
	StopTime       time.Time
	Packets        int
	Info           ProtInfo
}

// Duration is the time between the first and the last correlated packet.
func (c *CallRecord) Duration() time.Duration {
	return c.StopTime.Sub(c.StartTime)
}

func (c *CallRecord) String() string {
	return fmt.Sprintf("#%d %s %s -> %s [%s]", c.CallNum, c.Protocol, c.FromIdentity, c.ToIdentity, c.State)
}
