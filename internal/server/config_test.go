package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigTimeouts_Defaults(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, 15*time.Second, cfg.readTimeout())
	assert.Equal(t, 60*time.Second, cfg.writeTimeout())
}

func TestConfigTimeouts_ExplicitValuesWin(t *testing.T) {
	cfg := Config{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
	}
	assert.Equal(t, 5*time.Second, cfg.readTimeout())
	assert.Equal(t, 90*time.Second, cfg.writeTimeout())
}

func TestConfigTimeouts_NegativeFallsBack(t *testing.T) {
	cfg := Config{ReadTimeout: -time.Second, WriteTimeout: -time.Second}
	assert.Equal(t, 15*time.Second, cfg.readTimeout())
	assert.Equal(t, 60*time.Second, cfg.writeTimeout())
}
