package openai

import (
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/config"
)

func TestModule(t *testing.T) {
	tests := map[string]struct {
		apiKey  string
		wantNil bool
	}{
		"with key":    {apiKey: "test-api-key"},
		"without key": {wantNil: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			cfg.OpenAI.APIKey = tt.apiKey

			var got *openai.Client
			app := fxtest.New(t,
				fx.Supply(cfg, zap.NewNop()),
				Module,
				fx.Populate(&got),
			)
			app.RequireStart()
			app.RequireStop()

			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			assert.NotNil(t, got)
		})
	}
}

func TestNewClient_BaseURL(t *testing.T) {
	cfg := config.Default()
	cfg.OpenAI.APIKey = "key"
	cfg.OpenAI.BaseURL = "http://localhost:1234/v1"

	assert.NotNil(t, NewClient(cfg, zap.NewNop()))
}
