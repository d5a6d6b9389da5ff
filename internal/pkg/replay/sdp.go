package replay

import (
	"strconv"
	"strings"

	"github.com/endorses/callflow/internal/pkg/voipcalls"
	"github.com/pion/sdp/v3"
)

const telephoneEvent = "telephone-event"

// mediaDesc is one RTP destination announced by an SDP body.
type mediaDesc struct {
	addr   string
	port   uint16
	secure bool
	names  map[uint8]string
	events map[uint8]bool
}

// parseSDP returns the codec summary of body and the RTP streams it
// announces. ok is false when body is not a session description.
func parseSDP(body []byte) (summary string, media []mediaDesc, ok bool) {
	var sd sdp.SessionDescription
	if err := sd.Unmarshal(body); err != nil {
		return "", nil, false
	}

	var codecs []string
	for _, md := range sd.MediaDescriptions {
		d := mediaDesc{
			port:   uint16(md.MediaName.Port.Value),
			secure: isSecureProfile(md.MediaName.Protos),
			names:  make(map[uint8]string),
			events: make(map[uint8]bool),
		}
		switch {
		case md.ConnectionInformation != nil && md.ConnectionInformation.Address != nil:
			d.addr = md.ConnectionInformation.Address.Address
		case sd.ConnectionInformation != nil && sd.ConnectionInformation.Address != nil:
			d.addr = sd.ConnectionInformation.Address.Address
		}

		for _, f := range md.MediaName.Formats {
			n, err := strconv.ParseUint(f, 10, 8)
			if err != nil {
				// Non-RTP formats such as t38 name themselves.
				codecs = append(codecs, f)
				continue
			}
			pt := uint8(n)
			name := voipcalls.PayloadTypeName(pt)
			if pt >= 96 {
				if codec, err := sd.GetCodecForPayloadType(pt); err == nil && codec.Name != "" {
					name = codec.Name
					d.names[pt] = codec.Name
				}
			}
			if strings.EqualFold(name, telephoneEvent) {
				d.events[pt] = true
			}
			codecs = append(codecs, name)
		}

		if d.addr != "" && d.port != 0 && isRTPProfile(md.MediaName.Protos) {
			media = append(media, d)
		}
	}
	return strings.Join(codecs, " "), media, true
}

func isRTPProfile(protos []string) bool {
	return len(protos) > 0 && protos[0] == "RTP"
}

func isSecureProfile(protos []string) bool {
	for _, p := range protos {
		if strings.HasPrefix(p, "SAVP") {
			return true
		}
	}
	return false
}

func isSDPContentType(ct string) bool {
	mt, _, _ := strings.Cut(ct, ";")
	return strings.EqualFold(strings.TrimSpace(mt), "application/sdp")
}
