package replay

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/pion/rtp"
	"github.com/stretchr/testify/require"
)

var captureBase = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	alice = "10.0.0.1"
	bob   = "10.0.0.2"
)

type frame struct {
	src, dst     string
	sport, dport uint16
	payload      []byte
}

func sipFrame(src, dst, msg string) frame {
	return frame{src: src, dst: dst, sport: 5060, dport: 5060, payload: []byte(msg)}
}

func udpLayers(t *testing.T, f frame, withEthernet bool) []byte {
	t.Helper()
	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		SrcIP:    net.ParseIP(f.src).To4(),
		DstIP:    net.ParseIP(f.dst).To4(),
		Protocol: layers.IPProtocolUDP,
	}
	udp := &layers.UDP{SrcPort: layers.UDPPort(f.sport), DstPort: layers.UDPPort(f.dport)}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))

	stack := []gopacket.SerializableLayer{ip, udp, gopacket.Payload(f.payload)}
	if withEthernet {
		eth := &layers.Ethernet{
			SrcMAC:       net.HardwareAddr{0x00, 0x01, 0x02, 0x03, 0x04, 0x05},
			DstMAC:       net.HardwareAddr{0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b},
			EthernetType: layers.EthernetTypeIPv4,
		}
		stack = append([]gopacket.SerializableLayer{eth}, stack...)
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, stack...))
	return buf.Bytes()
}

func captureInfo(i int, data []byte) gopacket.CaptureInfo {
	return gopacket.CaptureInfo{
		Timestamp:     captureBase.Add(time.Duration(i) * 20 * time.Millisecond),
		CaptureLength: len(data),
		Length:        len(data),
	}
}

// writePcap writes frames as an Ethernet (or raw IP) pcap file.
func writePcap(t *testing.T, lt layers.LinkType, frames []frame) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.pcap")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := pcapgo.NewWriter(f)
	require.NoError(t, w.WriteFileHeader(65536, lt))
	for i, fr := range frames {
		data := udpLayers(t, fr, lt == layers.LinkTypeEthernet)
		require.NoError(t, w.WritePacket(captureInfo(i, data), data))
	}
	return path
}

func writePcapng(t *testing.T, frames []frame) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.pcapng")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := pcapgo.NewNgWriter(f, layers.LinkTypeEthernet)
	require.NoError(t, err)
	for i, fr := range frames {
		data := udpLayers(t, fr, true)
		require.NoError(t, w.WritePacket(captureInfo(i, data), data))
	}
	require.NoError(t, w.Flush())
	return path
}

func rtpFrame(t *testing.T, src, dst string, sport, dport uint16, pt uint8, seq uint16, payload []byte) frame {
	t.Helper()
	p := rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			PayloadType:    pt,
			SequenceNumber: seq,
			Timestamp:      uint32(seq) * 160,
			SSRC:           0xCAFE,
		},
		Payload: payload,
	}
	data, err := p.Marshal()
	require.NoError(t, err)
	return frame{src: src, dst: dst, sport: sport, dport: dport, payload: data}
}

func sdpBody(addr string, port int, formats string, attrs ...string) string {
	body := "v=0\r\n" +
		"o=- 1 1 IN IP4 " + addr + "\r\n" +
		"s=call\r\n" +
		"c=IN IP4 " + addr + "\r\n" +
		"t=0 0\r\n" +
		"m=audio " + strconv.Itoa(port) + " RTP/AVP " + formats + "\r\n"
	for _, a := range attrs {
		body += "a=" + a + "\r\n"
	}
	return body
}
