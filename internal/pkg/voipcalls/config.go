package voipcalls

import (
	"sync"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultMGCPReuseGrace is how long a finished MGCP call keeps its
	// endpoint before a new call may take it over.
	DefaultMGCPReuseGrace = 2 * time.Second
	// DefaultH245MaxLabels bounds the H.245 labels buffered for one frame.
	DefaultH245MaxLabels = 6

	TimeFormatRelative = "relative"
	TimeFormatAbsolute = "absolute"
)

var configOnce sync.Once

// Config holds the correlation options of a session.
type Config struct {
	// SIPFlowShowAll lets any SIP request start a call instead of INVITE only.
	SIPFlowShowAll bool          `mapstructure:"sip_flow_show_all"`
	TimeFormat     string        `mapstructure:"time_format"`
	MGCPReuseGrace time.Duration `mapstructure:"mgcp_reuse_grace"`
	H245MaxLabels  int           `mapstructure:"h245_max_labels"`
}

func initConfigDefaults() {
	viper.SetDefault("voipcalls.sip_flow_show_all", false)
	viper.SetDefault("voipcalls.time_format", TimeFormatRelative)
	viper.SetDefault("voipcalls.mgcp_reuse_grace", DefaultMGCPReuseGrace)
	viper.SetDefault("voipcalls.h245_max_labels", DefaultH245MaxLabels)
}

// GetConfig returns the current correlation configuration with defaults.
func GetConfig() *Config {
	configOnce.Do(initConfigDefaults)

	return &Config{
		SIPFlowShowAll: viper.GetBool("voipcalls.sip_flow_show_all"),
		TimeFormat:     viper.GetString("voipcalls.time_format"),
		MGCPReuseGrace: viper.GetDuration("voipcalls.mgcp_reuse_grace"),
		H245MaxLabels:  viper.GetInt("voipcalls.h245_max_labels"),
	}
}

// DefaultConfig returns the built-in defaults without consulting viper.
func DefaultConfig() *Config {
	return &Config{
		TimeFormat:     TimeFormatRelative,
		MGCPReuseGrace: DefaultMGCPReuseGrace,
		H245MaxLabels:  DefaultH245MaxLabels,
	}
}

func (c *Config) normalize() {
	if c.TimeFormat != TimeFormatAbsolute {
		c.TimeFormat = TimeFormatRelative
	}
	if c.MGCPReuseGrace < 0 {
		c.MGCPReuseGrace = 0
	}
	if c.H245MaxLabels <= 0 {
		c.H245MaxLabels = DefaultH245MaxLabels
	}
}
