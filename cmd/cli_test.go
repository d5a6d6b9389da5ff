package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		logLevel = ""
	}()
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantErr  bool
		contains []string
	}{
		{
			name:     "No arguments shows help",
			args:     []string{},
			contains: []string{"VoIP call correlation", "flow"},
		},
		{
			name:     "Help flag",
			args:     []string{"--help"},
			contains: []string{"--config", "--log-level"},
		},
		{
			name:     "Flow help lists subcommands",
			args:     []string{"flow", "--help"},
			contains: []string{"calls", "graph", "--read"},
		},
		{
			name:    "Invalid log level",
			args:    []string{"flow", "calls", "-r", "x.pcap", "--log-level", "loud"},
			wantErr: true,
		},
		{
			name:    "Missing capture",
			args:    []string{"flow", "calls", "-r", filepath.Join(os.TempDir(), "does-not-exist.pcap")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execRoot(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestInitConfig(t *testing.T) {
	defer func() {
		viper.Reset()
		cfgFile = ""
	}()

	tests := []struct {
		name       string
		content    string
		missing    bool
		wantFormat string
	}{
		{
			name:       "Custom config file",
			content:    "voipcalls:\n  time_format: absolute\n",
			wantFormat: "absolute",
		},
		{
			name:    "Non-existent custom config",
			missing: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			cfgFile = filepath.Join(t.TempDir(), "callflow.yaml")
			if !tt.missing {
				require.NoError(t, os.WriteFile(cfgFile, []byte(tt.content), 0o600))
			}

			assert.NotPanics(t, initConfig)
			assert.Equal(t, tt.wantFormat, viper.GetString("voipcalls.time_format"))
		})
	}
}
