package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("RELAY_TEST_VALUE", "set")

	assert.Equal(t, "set", GetEnv("RELAY_TEST_VALUE", "default"))
	assert.Equal(t, "default", GetEnv("RELAY_TEST_MISSING", "default"))
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"", true, true},
		{"true", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"off", true, false},
		{"false", true, false},
		{"garbage", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("RELAY_TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, GetEnvBool("RELAY_TEST_BOOL", tt.def))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("RELAY_TEST_TTL", "45s")
	assert.Equal(t, 45*time.Second, GetEnvDuration("RELAY_TEST_TTL", time.Minute))

	t.Setenv("RELAY_TEST_TTL", "soon")
	assert.Equal(t, time.Minute, GetEnvDuration("RELAY_TEST_TTL", time.Minute))
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("RELAY_TEST_LIST", " http://a.test , ,http://b.test")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, GetEnvList("RELAY_TEST_LIST", nil))

	assert.Equal(t, []string{"x"}, GetEnvList("RELAY_TEST_LIST_MISSING", []string{"x"}))
}
