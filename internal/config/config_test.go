// File: internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "formpilot-cli", cfg.Logger.ServiceName)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 90*time.Second, cfg.Network.NavigationTimeout)
	assert.Equal(t, 2*time.Second, cfg.Network.PostLoadWait)
	assert.Equal(t, 10*time.Second, cfg.Engine.WaitTimeout)
	assert.Equal(t, 40*time.Millisecond, cfg.Engine.KeyInterval)
	assert.False(t, cfg.Auth.Set())

	assert.NoError(t, cfg.Validate())
}

func TestNewConfigFromViperOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("browser.headless", false)
	v.Set("engine.key_interval", "0s")
	v.Set("network.post_load_wait", "500ms")

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, time.Duration(0), cfg.Engine.KeyInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.Network.PostLoadWait)
}

func TestCredentialsFromEnvironment(t *testing.T) {
	t.Setenv("FORMPILOT_AUTH_USERNAME", "tester@example.org")
	t.Setenv("FORMPILOT_AUTH_PASSWORD", "secret!")

	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.True(t, cfg.Auth.Set())
	assert.Equal(t, "tester@example.org", cfg.Auth.Username)
	assert.Equal(t, "secret!", cfg.Auth.Password)
	assert.NoError(t, cfg.RequireCredentials())
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero navigation timeout",
			mutate:  func(c *Config) { c.Network.NavigationTimeout = 0 },
			wantErr: "navigation_timeout",
		},
		{
			name:    "zero wait timeout",
			mutate:  func(c *Config) { c.Engine.WaitTimeout = 0 },
			wantErr: "wait_timeout",
		},
		{
			name:    "negative pacing",
			mutate:  func(c *Config) { c.Engine.SettleWait = -time.Second },
			wantErr: "pacing",
		},
		{
			name:    "half-set credentials",
			mutate:  func(c *Config) { c.Auth.Username = "user-only" },
			wantErr: "credentials",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestRequireCredentialsMissing(t *testing.T) {
	cfg := NewDefaultConfig()
	err := cfg.RequireCredentials()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORMPILOT_AUTH_USERNAME")
}
