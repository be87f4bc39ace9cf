package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	t.Run("AppliesDefaults", func(t *testing.T) {
		a, err := New(Config{
			PortalURL:       "https://portal.example/login",
			SuccessSelector: "#logout",
		}, zap.NewNop())
		require.NoError(t, err)

		assert.Equal(t, "#username", a.cfg.UsernameSelector)
		assert.Equal(t, "#password", a.cfg.PasswordSelector)
		assert.Equal(t, 45*time.Second, a.cfg.Timeout)
	})

	t.Run("RequiresPortalURL", func(t *testing.T) {
		_, err := New(Config{SuccessSelector: "#logout"}, zap.NewNop())
		assert.ErrorContains(t, err, "portal url")
	})

	t.Run("RequiresSuccessSelector", func(t *testing.T) {
		_, err := New(Config{PortalURL: "https://portal.example/login"}, zap.NewNop())
		assert.ErrorContains(t, err, "success selector")
	})
}

func TestLoginRequiresCredentials(t *testing.T) {
	a, err := New(Config{
		PortalURL:       "https://portal.example/login",
		SuccessSelector: "#logout",
	}, zap.NewNop())
	require.NoError(t, err)

	assert.Error(t, a.Login(context.Background(), Credentials{Username: "reader"}))
	assert.Error(t, a.Login(context.Background(), Credentials{Password: "secret"}))
}
