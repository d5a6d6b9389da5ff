package replay

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// ErrUnsupportedLinkType is returned for captures whose link layer the
// replay cannot decode.
var ErrUnsupportedLinkType = errors.New("unsupported link type")

const pcapngMagic = 0x0A0D0D0A

type packetSource interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

// Reader yields the packets of a pcap or pcapng file.
type Reader struct {
	file    *os.File
	src     packetSource
	decoder gopacket.Decoder
	path    string
}

// Open opens a capture file. The format is detected from its magic number.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}

	br := bufio.NewReader(f)
	magic, err := br.Peek(4)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to read capture header of %s: %w", path, err)
	}

	var src packetSource
	if binary.BigEndian.Uint32(magic) == pcapngMagic {
		src, err = pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
	} else {
		src, err = pcapgo.NewReader(br)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to parse capture %s: %w", path, err)
	}

	dec, err := decoderFor(src.LinkType())
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Reader{file: f, src: src, decoder: dec, path: path}, nil
}

func decoderFor(lt layers.LinkType) (gopacket.Decoder, error) {
	switch lt {
	case layers.LinkTypeEthernet:
		return layers.LayerTypeEthernet, nil
	case layers.LinkTypeLinuxSLL:
		return layers.LayerTypeLinuxSLL, nil
	case layers.LinkTypeRaw:
		return layers.LinkTypeRaw, nil
	case layers.LinkTypeIPv4:
		return layers.LayerTypeIPv4, nil
	case layers.LinkTypeIPv6:
		return layers.LayerTypeIPv6, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedLinkType, lt)
}

// LinkType returns the link layer of the capture.
func (r *Reader) LinkType() layers.LinkType {
	return r.src.LinkType()
}

// Path returns the file the reader was opened on.
func (r *Reader) Path() string {
	return r.path
}

// Next returns the next decoded packet. It returns io.EOF at the end of the
// capture.
func (r *Reader) Next() (gopacket.Packet, error) {
	data, ci, err := r.src.ReadPacketData()
	if err != nil {
		return nil, err
	}
	pkt := gopacket.NewPacket(data, r.decoder, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
	md := pkt.Metadata()
	md.CaptureInfo = ci
	md.Truncated = md.Truncated || ci.CaptureLength < ci.Length
	return pkt, nil
}

func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
