package voipcalls

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestGetConfigDefaults(t *testing.T) {
	cfg := GetConfig()
	assert.False(t, cfg.SIPFlowShowAll)
	assert.Equal(t, TimeFormatRelative, cfg.TimeFormat)
	assert.Equal(t, DefaultMGCPReuseGrace, cfg.MGCPReuseGrace)
	assert.Equal(t, DefaultH245MaxLabels, cfg.H245MaxLabels)
}

func TestGetConfigOverrides(t *testing.T) {
	viper.Set("voipcalls.sip_flow_show_all", true)
	viper.Set("voipcalls.mgcp_reuse_grace", "500ms")
	defer func() {
		viper.Set("voipcalls.sip_flow_show_all", false)
		viper.Set("voipcalls.mgcp_reuse_grace", DefaultMGCPReuseGrace)
	}()

	cfg := GetConfig()
	assert.True(t, cfg.SIPFlowShowAll)
	assert.Equal(t, 500*time.Millisecond, cfg.MGCPReuseGrace)
}

func TestConfigNormalize(t *testing.T) {
	cfg := &Config{TimeFormat: "bogus", MGCPReuseGrace: -time.Second}
	cfg.normalize()
	assert.Equal(t, TimeFormatRelative, cfg.TimeFormat)
	assert.Zero(t, cfg.MGCPReuseGrace)
	assert.Equal(t, DefaultH245MaxLabels, cfg.H245MaxLabels)
}
