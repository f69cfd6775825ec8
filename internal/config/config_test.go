package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 30*time.Second, cfg.ServerTimeout)
	assert.Equal(t, 20*time.Second, cfg.SignupTimeout)
	assert.Equal(t, 10*time.Second, cfg.SignupFollowUpTimeout)
	assert.Equal(t, "users", cfg.FirestoreUsersCollection)
	assert.Equal(t, "fail_open", cfg.SignupDuplicatePolicy)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 720*time.Hour, cfg.SessionHintTTL)
	assert.Equal(t, 5, cfg.ReconcileMaxAttempts)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")
	t.Setenv("SIGNUP_DUPLICATE_POLICY", "fail_closed")
	t.Setenv("SIGNUP_TIMEOUT_SECONDS", "5")
	t.Setenv("SIGNUP_FOLLOWUP_TIMEOUT_SECONDS", "3")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fail_closed", cfg.SignupDuplicatePolicy)
	assert.Equal(t, 5*time.Second, cfg.SignupTimeout)
	assert.Equal(t, 3*time.Second, cfg.SignupFollowUpTimeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown duplicate policy", key: "SIGNUP_DUPLICATE_POLICY", val: "maybe"},
		{name: "unknown db driver", key: "DB_DRIVER", val: "mysql"},
		{name: "missing key file", key: "FIREBASE_SERVICE_ACCOUNT_KEY_PATH", val: "/nonexistent/key.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
