package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestTimeout(t *testing.T) {
	viper.Set("REQ_TIMEOUT", "")
	timeout := GetRequestTimeout()
	assert.Equal(t, timeout, defaultRequestTimeout)

	viper.Set("REQ_TIMEOUT", "14s")
	timeout = GetRequestTimeout()
	assert.Equal(t, timeout, 14*time.Second)
}

func TestSigningTimeout(t *testing.T) {
	viper.Set("SIGNING_TIMEOUT", "")
	assert.Equal(t, defaultSigningTimeout, GetSigningTimeout())

	viper.Set("SIGNING_TIMEOUT", "30s")
	assert.Equal(t, 30*time.Second, GetSigningTimeout())
}

func TestPort(t *testing.T) {
	viper.Set("PORT", "")
	assert.Equal(t, defaultLocalPort, GetPort())

	viper.Set("PORT", "9000")
	assert.Equal(t, ":9000", GetPort())
}

func TestLimits(t *testing.T) {
	viper.Set("MAX_BINARY_SIZE", "")
	assert.Equal(t, defaultMaxBinarySize, GetMaxBinarySize())

	viper.Set("MAX_STRUCTURED_DEPTH", "4")
	assert.Equal(t, 4, GetMaxStructuredDepth())
}
