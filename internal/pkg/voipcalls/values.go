package voipcalls

import "fmt"

func lookupName(table map[int]string, v int, unknown string) string {
	if name, ok := table[v]; ok {
		return name
	}
	return fmt.Sprintf(unknown, v)
}

var isupAcronyms = map[int]string{
	1: "IAM", 2: "SAM", 3: "INR", 4: "INF", 5: "COT", 6: "ACM", 7: "CON",
	8: "FOT", 9: "ANM", 12: "REL", 13: "SUS", 14: "RES", 16: "RLC",
	17: "CCR", 18: "RSC", 19: "BLO", 20: "UBL", 21: "BLA", 22: "UBA",
	23: "GRS", 24: "CGB", 25: "CGU", 26: "CGBA", 27: "CGUA", 31: "FAR",
	32: "FAA", 33: "FRJ", 36: "LPA", 40: "PAM", 41: "GRA", 42: "CQM",
	43: "CQR", 44: "CPG", 45: "USR", 46: "UCIC", 47: "CFN", 48: "OLM",
	49: "CRG", 50: "NRM", 51: "FAC", 52: "UPT", 53: "UPA", 54: "IDR",
	55: "IRS", 56: "SGM", 233: "CRA", 234: "CRM", 235: "CVR", 236: "CVT",
	237: "EXM",
}

func isupAcronym(t uint8) string {
	if name, ok := isupAcronyms[int(t)]; ok {
		return name
	}
	return "Unknown"
}

// Q.850 cause values shared by ISUP and Q.931.
var causeTexts = map[int]string{
	1:   "Unallocated (unassigned) number",
	2:   "No route to specified transit network",
	3:   "No route to destination",
	6:   "Channel unacceptable",
	16:  "Normal call clearing",
	17:  "User busy",
	18:  "No user responding",
	19:  "No answer from user (user alerted)",
	20:  "Subscriber absent",
	21:  "Call rejected",
	22:  "Number changed",
	26:  "Non-selected user clearing",
	27:  "Destination out of order",
	28:  "Invalid number format (incomplete number)",
	29:  "Facility rejected",
	30:  "Response to STATUS ENQUIRY",
	31:  "Normal unspecified",
	34:  "No circuit/channel available",
	38:  "Network out of order",
	41:  "Temporary failure",
	42:  "Switching equipment congestion",
	44:  "Requested circuit/channel not available",
	47:  "Resources unavailable, unspecified",
	50:  "Requested facility not subscribed",
	57:  "Bearer capability not authorized",
	58:  "Bearer capability not presently available",
	63:  "Service or option not available, unspecified",
	65:  "Bearer capability not implemented",
	69:  "Requested facility not implemented",
	79:  "Service or option not implemented, unspecified",
	81:  "Invalid call reference value",
	88:  "Incompatible destination",
	95:  "Invalid message, unspecified",
	96:  "Mandatory information element is missing",
	97:  "Message type non-existent or not implemented",
	100: "Invalid information element contents",
	102: "Recovery on timer expiry",
	111: "Protocol error, unspecified",
	127: "Interworking, unspecified",
}

func causeText(cause int, unknown string) string {
	if text, ok := causeTexts[cause]; ok {
		return text
	}
	return unknown
}

var q931MessageNames = map[int]string{
	int(Q931Alerting):        "ALERTING",
	int(Q931CallProceeding):  "CALL PROCEEDING",
	int(Q931Progress):        "PROGRESS",
	int(Q931Setup):           "SETUP",
	int(Q931Connect):         "CONNECT",
	int(Q931SetupAck):        "SETUP ACKNOWLEDGE",
	int(Q931ConnectAck):      "CONNECT ACKNOWLEDGE",
	int(Q931Disconnect):      "DISCONNECT",
	int(Q931Release):         "RELEASE",
	int(Q931ReleaseComplete): "RELEASE COMPLETE",
	int(Q931Facility):        "FACILITY",
	int(Q931Notify):          "NOTIFY",
	int(Q931Status):          "STATUS",
}

func q931MessageName(t uint8) string {
	return lookupName(q931MessageNames, int(t), "Unknown (0x%02x)")
}

var rasMessageNames = []string{
	"gatekeeperRequest", "gatekeeperConfirm", "gatekeeperReject",
	"registrationRequest", "registrationConfirm", "registrationReject",
	"unregistrationRequest", "unregistrationConfirm", "unregistrationReject",
	"admissionRequest", "admissionConfirm", "admissionReject",
	"bandwidthRequest", "bandwidthConfirm", "bandwidthReject",
	"disengageRequest", "disengageConfirm", "disengageReject",
	"locationRequest", "locationConfirm", "locationReject",
	"infoRequest", "infoRequestResponse", "nonStandardMessage",
	"unknownMessageResponse", "requestInProgress",
	"resourcesAvailableIndicate", "resourcesAvailableConfirm",
	"infoRequestAck", "infoRequestNak", "serviceControlIndication",
	"serviceControlResponse", "admissionConfirmSequence",
}

func rasMessageName(tag int) string {
	if tag >= 0 && tag < len(rasMessageNames) {
		return rasMessageNames[tag]
	}
	return "<unknown>"
}

var h225CSNames = map[H225CSType]string{
	H225Setup:           "Setup",
	H225CallProceeding:  "CallProceeding",
	H225Connect:         "Connect",
	H225Alerting:        "Alerting",
	H225Information:     "Information",
	H225ReleaseComplete: "ReleaseComplete",
	H225Facility:        "Facility",
	H225Progress:        "Progress",
	H225Empty:           "Empty",
	H225Status:          "Status",
	H225StatusInquiry:   "StatusInquiry",
	H225SetupAck:        "SetupAck",
	H225Notify:          "Notify",
}

func h225CSName(t H225CSType) string {
	if name, ok := h225CSNames[t]; ok {
		return name
	}
	return "H225: Unknown"
}

var sccpAcronyms = map[int]string{
	1: "CR", 2: "CC", 3: "CREF", 4: "RLSD", 5: "RLC", 6: "DT1", 7: "DT2",
	8: "AK", 9: "UDT", 10: "UDTS", 11: "ED", 12: "EA", 13: "RSR",
	14: "RSC", 15: "ERR", 16: "IT", 17: "XUDT", 18: "XUDTS", 19: "LUDT",
	20: "LUDTS",
}

func sccpAcronym(t uint8) string {
	return lookupName(sccpAcronyms, int(t), "Unknown (%d)")
}

// PayloadTypeName maps static RTP payload types to short codec names.
func PayloadTypeName(pt uint8) string {
	codecs := map[uint8]string{
		0:  "g711U",
		3:  "GSM",
		4:  "G723",
		5:  "DVI4 8k",
		6:  "DVI4 16k",
		7:  "LPC",
		8:  "g711A",
		9:  "g722",
		10: "L16 stereo",
		11: "L16 mono",
		12: "QCELP",
		13: "CN",
		14: "MPA",
		15: "g728",
		16: "DVI4 11k",
		17: "DVI4 22k",
		18: "g729",
		19: "CN_old",
		25: "CelB",
		26: "JPEG",
		28: "NV",
		31: "h261",
		32: "MPV",
		33: "MP2T",
		34: "h263",
	}

	if codec, ok := codecs[pt]; ok {
		return codec
	}
	// Dynamic payload types (96-127) need SDP to be named
	if pt >= 96 && pt <= 127 {
		return fmt.Sprintf("DynamicRTP-Type-%d", pt)
	}
	return fmt.Sprintf("Unknown (%d)", pt)
}

var rtpEventNames = map[int]string{
	0: "DTMF Zero 0", 1: "DTMF One 1", 2: "DTMF Two 2", 3: "DTMF Three 3",
	4: "DTMF Four 4", 5: "DTMF Five 5", 6: "DTMF Six 6", 7: "DTMF Seven 7",
	8: "DTMF Eight 8", 9: "DTMF Nine 9", 10: "DTMF Star *",
	11: "DTMF Pound #", 12: "DTMF A", 13: "DTMF B", 14: "DTMF C",
	15: "DTMF D", 16: "Flash", 32: "Fax answer tone (ANS)",
	33: "Fax answer tone (/ANS)", 34: "Fax answer tone (ANSam)",
	35: "Fax answer tone (/ANSam)", 36: "Fax calling tone (CNG)",
	37: "V.21 channel 1, 0 bit", 38: "V.21 channel 1, 1 bit",
	39: "V.21 channel 2, 0 bit", 40: "V.21 channel 2, 1 bit",
	41: "Fax CRdi", 42: "Fax CRdr", 43: "Fax CRe", 44: "Fax ESi",
	45: "Fax ESr", 46: "Fax MRdi", 47: "Fax MRdr", 48: "Fax MRe",
	49: "Fax CT", 64: "Off Hook", 65: "On Hook", 66: "Dial tone",
	70: "Ringing tone", 72: "Busy tone",
}

func rtpEventName(ev int) string {
	return lookupName(rtpEventNames, ev, "Unknown (%d)")
}

var t30IndicatorNames = map[int]string{
	0: "no-signal", 1: "cng", 2: "ced", 3: "v21-preamble",
	4: "v27-2400-training", 5: "v27-4800-training", 6: "v29-7200-training",
	7: "v29-9600-training", 8: "v17-7200-short-training",
	9: "v17-7200-long-training", 10: "v17-9600-short-training",
	11: "v17-9600-long-training", 12: "v17-12000-short-training",
	13: "v17-12000-long-training", 14: "v17-14400-short-training",
	15: "v17-14400-long-training", 16: "v8-ansam", 17: "v8-signal",
	18: "v34-cntl-channel-1200", 19: "v34-pri-channel",
	20: "v34-CC-retrain", 21: "v33-12000-training",
	22: "v33-14400-training",
}

var t30DataNames = map[int]string{
	0: "v21", 1: "v27-2400", 2: "v27-4800", 3: "v29-7200", 4: "v29-9600",
	5: "v17-7200", 6: "v17-9600", 7: "v17-12000", 8: "v17-14400", 9: "v8",
	10: "v34-pri-rate", 11: "v34-CC-1200", 12: "v34-pri-ch",
	13: "v33-12000", 14: "v33-14400",
}

// T.30 facsimile control field, short and long forms.
var t30FCFShort = map[int]string{
	0x01: "DIS", 0x02: "CSI", 0x04: "NSF", 0x81: "DTC", 0x82: "CIG",
	0x84: "NSC", 0x83: "PWD", 0x85: "SEP", 0x86: "PSA", 0x87: "CIA",
	0x88: "ISP", 0x41: "DCS", 0x42: "TSI", 0x44: "NSS", 0x43: "SUB",
	0x45: "SID", 0x46: "TSA", 0x47: "IRA", 0x21: "CFR", 0x22: "FTT",
	0x23: "CSA", 0x71: "EOM", 0x72: "MPS", 0x74: "EOP", 0x79: "PRI-EOM",
	0x7A: "PRI-MPS", 0x7C: "PRI-EOP", 0x31: "MCF", 0x33: "RTP",
	0x32: "RTN", 0x36: "PIP", 0x35: "PIN", 0x3F: "FDM", 0x5F: "DCN",
	0x58: "CRP",
}

var t30FCFLong = map[int]string{
	0x01: "Digital Identification Signal",
	0x02: "Called Subscriber Identification",
	0x04: "Non-Standard Facilities",
	0x81: "Digital Transmit Command",
	0x82: "Calling Subscriber Identification",
	0x84: "Non-Standard facilities Command",
	0x41: "Digital Command Signal",
	0x42: "Transmitting Subscriber Identification",
	0x44: "Non-Standard facilities Set-up",
	0x21: "Confirmation To Receive",
	0x22: "Failure To Train",
	0x71: "End Of Message",
	0x72: "MultiPage Signal",
	0x74: "End Of Procedure",
	0x31: "Message Confirmation",
	0x33: "Retrain Positive",
	0x32: "Retrain Negative",
	0x5F: "Disconnect",
	0x58: "Command Repeat",
}
