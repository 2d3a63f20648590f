package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing configuration table", func(c *Config) { c.ConfigurationTable = "" }},
		{"missing grant table", func(c *Config) { c.GrantTable = "" }},
		{"same table for both collections", func(c *Config) { c.GrantTable = c.ConfigurationTable }},
		{"unknown grant partition", func(c *Config) { c.GrantPartition = "tenant" }},
		{"sweep interval too short", func(c *Config) { c.SweepInterval = time.Second }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestConfigAcceptsBothPartitionStrategies(t *testing.T) {
	for _, p := range []GrantPartition{GrantPartitionClient, GrantPartitionSubject} {
		cfg := DefaultConfig()
		cfg.GrantPartition = p
		assert.NoError(t, cfg.Validate())
	}
}
