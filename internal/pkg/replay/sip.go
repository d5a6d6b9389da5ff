package replay

import (
	"bytes"
	"strings"

	"github.com/endorses/callflow/internal/pkg/voipcalls"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// isSIPStartLine reports whether line opens a SIP request or response.
func isSIPStartLine(line string) bool {
	if strings.HasPrefix(line, "SIP/2.0 ") {
		return true
	}
	if !strings.HasSuffix(line, " SIP/2.0") {
		return false
	}
	method, _, ok := strings.Cut(line, " ")
	if !ok {
		return false
	}
	_, err := layers.GetSIPMethod(method)
	return err == nil
}

func looksLikeSIP(payload []byte) bool {
	line, _, _ := bytes.Cut(payload, []byte("\n"))
	return isSIPStartLine(strings.TrimRight(string(line), "\r"))
}

// headerURI extracts the URI of a From or To header value.
func headerURI(v string) string {
	if i := strings.IndexByte(v, '<'); i >= 0 {
		if j := strings.IndexByte(v[i:], '>'); j > 0 {
			return v[i+1 : i+j]
		}
	}
	v, _, _ = strings.Cut(v, ";")
	return strings.TrimSpace(v)
}

// decodeSIP turns one SIP message into correlator events. The SDP body, if
// any, is returned alongside for media registration.
func decodeSIP(payload []byte) (*voipcalls.SIPEvent, *voipcalls.SDPEvent, []mediaDesc, error) {
	msg := layers.NewSIP()
	if err := msg.DecodeFromBytes(payload, gopacket.NilDecodeFeedback); err != nil {
		return nil, nil, nil, err
	}

	ev := &voipcalls.SIPEvent{
		CallID: msg.GetCallID(),
		CSeq:   uint32(msg.GetCSeq()),
		From:   headerURI(msg.GetFrom()),
		To:     headerURI(msg.GetTo()),
	}
	if _, method, ok := strings.Cut(strings.TrimSpace(msg.GetFirstHeader("cseq")), " "); ok {
		ev.CSeqMethod = strings.TrimSpace(method)
	}
	if msg.IsResponse {
		ev.ResponseCode = msg.ResponseCode
		ev.ReasonPhrase = msg.ResponseStatus
	} else {
		ev.Method = msg.Method.String()
	}

	body := msg.Payload()
	if len(body) == 0 || !isSDPContentType(msg.GetFirstHeader("content-type")) {
		return ev, nil, nil, nil
	}
	summary, media, ok := parseSDP(body)
	if !ok {
		return ev, nil, nil, nil
	}
	return ev, &voipcalls.SDPEvent{Summary: summary}, media, nil
}
