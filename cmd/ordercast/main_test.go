package main

import (
	"testing"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSettingsDefaults(t *testing.T) {
	var settings Settings
	_, err := env.UnmarshalFromEnviron(&settings)
	require.NoError(t, err)

	assert.Equal(t, 8000, settings.Port)
	assert.Equal(t, "memory", settings.MenuEngine)
	assert.Equal(t, 16, settings.SendBufferSize)
	assert.Equal(t, int64(1<<20), settings.MaxMenuBytes)
	assert.Nil(t, settings.allowedOrigins())
}

func TestSettingsFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MENU_ENGINE", "badger")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	var settings Settings
	_, err := env.UnmarshalFromEnviron(&settings)
	require.NoError(t, err)

	assert.Equal(t, 9000, settings.Port)
	assert.Equal(t, "badger", settings.MenuEngine)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, settings.allowedOrigins())
}

func TestNewApp(t *testing.T) {
	for _, engine := range []string{"memory", "badger"} {
		t.Run(engine, func(t *testing.T) {
			app, err := NewApp(zap.NewNop(), Settings{MenuEngine: engine, SendBufferSize: 16, MaxMenuBytes: 1024})

			require.NoError(t, err)
			assert.NoError(t, app.persistenceEngine.Close())
		})
	}

	t.Run("unknown engine", func(t *testing.T) {
		_, err := NewApp(zap.NewNop(), Settings{MenuEngine: "mongodb"})

		assert.ErrorContains(t, err, `unknown menu engine "mongodb"`)
	})
}
