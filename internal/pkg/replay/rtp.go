package replay

import (
	"github.com/endorses/callflow/internal/pkg/voipcalls"
	"github.com/pion/rtp"
)

// mediaStream is an RTP destination learnt from signalling.
type mediaStream struct {
	setupFrame uint32
	secure     bool
	names      map[uint8]string
	events     map[uint8]bool
}

// mediaTable maps announced addr:port pairs to the frame that announced
// them. A later announcement of the same endpoint replaces the earlier one.
type mediaTable map[voipcalls.Endpoint]*mediaStream

func (mt mediaTable) register(frame uint32, media []mediaDesc) {
	for _, d := range media {
		mt[voipcalls.Endpoint{Addr: d.addr, Port: d.port}] = &mediaStream{
			setupFrame: frame,
			secure:     d.secure,
			names:      d.names,
			events:     d.events,
		}
	}
}

// lookup finds the stream a packet belongs to, preferring its destination.
func (mt mediaTable) lookup(src, dst voipcalls.Endpoint) (*mediaStream, bool) {
	if ms, ok := mt[dst]; ok {
		return ms, true
	}
	ms, ok := mt[src]
	return ms, ok
}

// decodeRTP returns the correlator events of one RTP packet: a telephone
// event record first when the payload carries one.
func decodeRTP(payload []byte, ms *mediaStream) ([]voipcalls.Event, error) {
	var p rtp.Packet
	if err := p.Unmarshal(payload); err != nil {
		return nil, err
	}
	if p.Version != 2 {
		return nil, errNotRTP
	}

	ev := &voipcalls.RTPEvent{
		SSRC:        p.SSRC,
		PayloadType: p.PayloadType,
		PayloadName: ms.names[p.PayloadType],
		Sequence:    p.SequenceNumber,
		Timestamp:   p.Timestamp,
		Marker:      p.Marker,
		SetupFrame:  ms.setupFrame,
		Secure:      ms.secure,
	}
	if ms.events[p.PayloadType] && len(p.Payload) >= 4 {
		return []voipcalls.Event{
			&voipcalls.RTPEventEvent{Event: int(p.Payload[0]), End: p.Payload[1]&0x80 != 0},
			ev,
		}, nil
	}
	return []voipcalls.Event{ev}, nil
}
