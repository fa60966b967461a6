package discord_test

import (
	"testing"

	arikawa "github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"

	"github.com/Raikerian/go-discord-clipper/internal/config"
	"github.com/Raikerian/go-discord-clipper/internal/discord"
)

func TestNewSession(t *testing.T) {
	tests := map[string]struct {
		token   string
		wantErr error
	}{
		"with token":    {token: "abc"},
		"missing token": {wantErr: discord.ErrNoToken},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Discord.BotToken = tt.token

			s, err := discord.NewSession(discord.SessionParams{
				Cfg:    cfg,
				LC:     fxtest.NewLifecycle(t),
				Logger: zaptest.NewLogger(t),
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, s)
			assert.NotNil(t, discord.NewState(s))
		})
	}
}

func TestProvideApplicationID(t *testing.T) {
	id := arikawa.Snowflake(4242)
	zero := arikawa.Snowflake(0)

	tests := map[string]struct {
		appID   *arikawa.Snowflake
		want    arikawa.AppID
		wantErr bool
	}{
		"set":     {appID: &id, want: 4242},
		"missing": {wantErr: true},
		"zero":    {appID: &zero, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Discord.ApplicationID = tt.appID

			got, err := discord.ProvideApplicationID(cfg)
			if tt.wantErr {
				require.ErrorIs(t, err, discord.ErrNoApplicationID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
