package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-g", "127.0.0.1:9091", "-t", "mysql", "-d", "anniv:pw@tcp(db)/anniv",
				"-m", "12", "-f", "invite, 2fa,,close", "-b", "12", "-s", "0123456789abcdef", "-l", "debug",
			},
			expected: &Config{
				HTTPAddr:               "127.0.0.1:9090",
				GRPCAddr:               "127.0.0.1:9091",
				DatabaseDriver:         "mysql",
				DatabaseDSN:            "anniv:pw@tcp(db)/anniv",
				DatabaseMaxConnections: 12,
				Features:               []string{"invite", "2fa", "close"},
				BcryptCost:             12,
				SessionSecret:          "0123456789abcdef",
				LogLevel:               "debug",
			},
		},
		{
			name: "foreign flags are ignored",
			args: []string{"-c", "conf.json", "-code", "C1", "-a", ":1"},
			expected: &Config{
				HTTPAddr: ":1",
				Features: []string{},
			},
		},
		{
			name:    "bad int",
			args:    []string{"-m", "many"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_KeepsUnsetValues(t *testing.T) {
	var c Config
	c.LoadDefaults()

	require.NoError(t, parseFlags(&c, nil))
	assert.Equal(t, 7*24*time.Hour, c.SessionTTL)
	assert.Equal(t, ":6655", c.HTTPAddr)
}
