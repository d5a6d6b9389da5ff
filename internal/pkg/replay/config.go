package replay

import (
	"sync"

	"github.com/spf13/viper"
)

var (
	DefaultSIPPorts  = []int{5060, 5061}
	DefaultMGCPPorts = []int{2427, 2727}
)

var configOnce sync.Once

// Config selects which UDP payloads the replay decodes.
type Config struct {
	SIPPorts  []int `mapstructure:"sip_ports"`
	MGCPPorts []int `mapstructure:"mgcp_ports"`
	// RTP enables decoding of media announced by SDP.
	RTP bool `mapstructure:"rtp"`
}

func initConfigDefaults() {
	viper.SetDefault("replay.sip_ports", DefaultSIPPorts)
	viper.SetDefault("replay.mgcp_ports", DefaultMGCPPorts)
	viper.SetDefault("replay.rtp", true)
}

// GetConfig returns the replay configuration with defaults applied.
func GetConfig() *Config {
	configOnce.Do(initConfigDefaults)

	return &Config{
		SIPPorts:  viper.GetIntSlice("replay.sip_ports"),
		MGCPPorts: viper.GetIntSlice("replay.mgcp_ports"),
		RTP:       viper.GetBool("replay.rtp"),
	}
}

// DefaultConfig returns the built-in defaults without consulting viper.
func DefaultConfig() *Config {
	return &Config{
		SIPPorts:  append([]int(nil), DefaultSIPPorts...),
		MGCPPorts: append([]int(nil), DefaultMGCPPorts...),
		RTP:       true,
	}
}

type portSet map[uint16]struct{}

func newPortSet(ports []int) portSet {
	ps := make(portSet, len(ports))
	for _, p := range ports {
		if p > 0 && p <= 0xFFFF {
			ps[uint16(p)] = struct{}{}
		}
	}
	return ps
}

func (ps portSet) has(src, dst uint16) bool {
	_, s := ps[src]
	_, d := ps[dst]
	return s || d
}
