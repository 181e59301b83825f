package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/receipt-relay/internal/config"
)

func baseEnv() map[string]string {
	return map[string]string{
		"LISTEN_HOST":             "127.0.0.1",
		"LISTEN_PORT":             "8080",
		"VERIFY_SIGNATURE":        "true",
		"TYPEFORM_WEBHOOK_SECRET": "tfsecret",
		"STRIPE_API_KEY":          "sk_test_abc",
		"CHARGE_SEARCH_LIMIT":     "",
		"STRIPE_TIMEOUT_MS":       "",
		"LOG_LEVEL":               "",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(baseEnv())
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr())
	require.True(t, cfg.VerifySignature)
	require.Equal(t, int64(5), cfg.ChargeSearchLimit)
	require.Equal(t, 20*time.Second, cfg.StripeTimeout)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadRequiredVariables(t *testing.T) {
	for _, key := range []string{
		"LISTEN_HOST",
		"LISTEN_PORT",
		"VERIFY_SIGNATURE",
		"TYPEFORM_WEBHOOK_SECRET",
		"STRIPE_API_KEY",
	} {
		env := baseEnv()
		env[key] = ""
		_, err := config.LoadForTests(env)
		require.Error(t, err, "expected missing %s to fail", key)
	}
}

func TestLoadVerifySignatureToggle(t *testing.T) {
	env := baseEnv()
	env["VERIFY_SIGNATURE"] = "false"
	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)
	require.False(t, cfg.VerifySignature)

	env["VERIFY_SIGNATURE"] = "maybe"
	_, err = config.LoadForTests(env)
	require.Error(t, err)
}

func TestLoadChargeSearchLimit(t *testing.T) {
	env := baseEnv()
	env["CHARGE_SEARCH_LIMIT"] = "25"
	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, int64(25), cfg.ChargeSearchLimit)

	env["CHARGE_SEARCH_LIMIT"] = "-1"
	_, err = config.LoadForTests(env)
	require.Error(t, err)
}
