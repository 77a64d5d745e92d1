package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "release", c.GinMode)
	assert.Equal(t, 60, c.RateLimitPerMinute)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, "hirl", c.DBName)
	assert.Equal(t, 48280.0, c.DisplayRadiusMeters)
	assert.Equal(t, 5000.0, c.CheckInRadiusMeters)
	assert.False(t, c.GridGenderGateEnabled)
	assert.Equal(t, "female", c.GridFullAccessGender)
	assert.Equal(t, 4, c.PollIntervalSeconds)
	assert.Equal(t, 12, c.CheckInMaxAgeHours)
	assert.Equal(t, 5, c.PingCooldownSeconds)
	assert.Equal(t, 30, c.PingMaxPerHour)
}

func TestApplyDefaultsPreservesExisting(t *testing.T) {
	c := AppConfig{AppPort: "9000", DisplayRadiusMeters: 1000}
	applyDefaults(&c)

	assert.Equal(t, "9000", c.AppPort)
	assert.Equal(t, 1000.0, c.DisplayRadiusMeters)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DISPLAY_RADIUS_METERS", "12345.5")
	t.Setenv("CHECKIN_RADIUS_METERS", "250")
	t.Setenv("GRID_GENDER_GATE_ENABLED", "true")
	t.Setenv("GRID_FULL_ACCESS_GENDER", "other")
	t.Setenv("POLL_INTERVAL_SECONDS", "10")
	t.Setenv("ADMIN_EMAILS", "ops@hirl.com, root@hirl.com")

	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)

	assert.Equal(t, "9999", c.AppPort)
	assert.Equal(t, "test-secret", c.JWTSecret)
	assert.Equal(t, 12345.5, c.DisplayRadiusMeters)
	assert.Equal(t, 250.0, c.CheckInRadiusMeters)
	assert.True(t, c.GridGenderGateEnabled)
	assert.Equal(t, "other", c.GridFullAccessGender)
	assert.Equal(t, 10, c.PollIntervalSeconds)
	assert.Equal(t, []string{"ops@hirl.com", "root@hirl.com"}, c.AdminEmails)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a , b ,"))
	assert.Empty(t, splitAndTrim("  "))
}
