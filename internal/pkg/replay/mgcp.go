package replay

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/endorses/callflow/internal/pkg/voipcalls"
)

var errNotMGCP = errors.New("not an MGCP message")

var mgcpVerbs = map[string]bool{
	"EPCF": true, "CRCX": true, "MDCX": true, "DLCX": true, "RQNT": true,
	"NTFY": true, "AUEP": true, "AUCX": true, "RSIP": true,
}

// mgcpMessage is the parsed text of one MGCP command or response.
type mgcpMessage struct {
	isRequest bool
	verb      string
	txid      uint32
	endpoint  string
	code      int
	params    map[string]string
	body      []byte
}

// parseMGCP parses the first message of an MGCP datagram. Piggybacked
// messages after a "." line are ignored.
func parseMGCP(payload []byte) (*mgcpMessage, error) {
	head, body, _ := cutBlankLine(payload)
	lines := strings.Split(strings.ReplaceAll(string(head), "\r\n", "\n"), "\n")
	if len(lines) == 0 {
		return nil, errNotMGCP
	}

	fields := strings.Fields(lines[0])
	if len(fields) < 2 {
		return nil, errNotMGCP
	}
	txid, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: bad transaction id %q", errNotMGCP, fields[1])
	}

	m := &mgcpMessage{txid: uint32(txid), params: make(map[string]string)}
	if code, err := strconv.Atoi(fields[0]); err == nil {
		if code < 100 || code > 999 {
			return nil, fmt.Errorf("%w: bad response code %d", errNotMGCP, code)
		}
		m.code = code
	} else {
		verb := strings.ToUpper(fields[0])
		if !mgcpVerbs[verb] || len(fields) < 5 || fields[3] != "MGCP" {
			return nil, errNotMGCP
		}
		m.isRequest = true
		m.verb = verb
		m.endpoint = fields[2]
	}

	for _, line := range lines[1:] {
		if line == "." {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		m.params[strings.ToUpper(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}
	m.body = body
	return m, nil
}

func cutBlankLine(b []byte) (head, body []byte, found bool) {
	if h, t, ok := bytes.Cut(b, []byte("\r\n\r\n")); ok {
		return h, t, true
	}
	return bytes.Cut(b, []byte("\n\n"))
}

type mgcpTxKey struct {
	txid     uint32
	src, dst voipcalls.Endpoint
}

type mgcpTx struct {
	frame        uint32
	verb         string
	endpoint     string
	responseSeen bool
}

// mgcpTransactions pairs responses with their requests and spots
// retransmissions.
type mgcpTransactions map[mgcpTxKey]*mgcpTx

// event builds the correlator record of m, tracking its transaction.
func (t mgcpTransactions) event(frame uint32, src, dst voipcalls.Endpoint, m *mgcpMessage) *voipcalls.MGCPEvent {
	ev := &voipcalls.MGCPEvent{
		IsRequest:     m.isRequest,
		TransactionID: m.txid,
		ResponseCode:  m.code,
	}

	if m.isRequest {
		key := mgcpTxKey{txid: m.txid, src: src, dst: dst}
		tx, seen := t[key]
		if !seen {
			tx = &mgcpTx{frame: frame, verb: m.verb, endpoint: m.endpoint}
			t[key] = tx
		}
		ev.IsDuplicate = seen && tx.frame != frame
		ev.RequestFrame = tx.frame
		ev.Verb = m.verb
		ev.EndpointID = m.endpoint

		ev.ObservedEvents, ev.HasObserved = m.params["O"]
		ev.SignalRequests, ev.HasSignals = m.params["S"]
		_, ev.HasDigitMap = m.params["D"]
		return ev
	}

	if tx, ok := t[mgcpTxKey{txid: m.txid, src: dst, dst: src}]; ok {
		ev.RequestFrame = tx.frame
		ev.Verb = tx.verb
		ev.EndpointID = tx.endpoint
		ev.IsDuplicate = tx.responseSeen
		tx.responseSeen = true
	}
	return ev
}
