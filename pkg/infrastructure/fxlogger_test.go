package infrastructure_test

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Raikerian/go-discord-clipper/pkg/infrastructure"
)

func observed(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

func TestFxLogger_LogEvent(t *testing.T) {
	boom := errors.New("boom")

	tests := map[string]struct {
		event     fxevent.Event
		wantLevel zapcore.Level
		wantMsg   string
		wantField string
	}{
		"hook executed": {
			event:     &fxevent.OnStartExecuted{FunctionName: "start", CallerName: "voice", Runtime: 5},
			wantLevel: zapcore.DebugLevel,
			wantMsg:   "OnStart hook executed",
			wantField: "callee",
		},
		"hook failed": {
			event:     &fxevent.OnStopExecuted{FunctionName: "stop", CallerName: "voice", Err: boom},
			wantLevel: zapcore.ErrorLevel,
			wantMsg:   "OnStop hook failed",
			wantField: "error",
		},
		"provided": {
			event:     &fxevent.Provided{ConstructorName: "NewManager", OutputTypeNames: []string{"*voice.Manager"}},
			wantLevel: zapcore.DebugLevel,
			wantMsg:   "Provided",
			wantField: "types",
		},
		"provide failed": {
			event:     &fxevent.Provided{ConstructorName: "NewManager", Err: boom},
			wantLevel: zapcore.ErrorLevel,
			wantMsg:   "Provided failed",
			wantField: "error",
		},
		"invoke failed": {
			event:     &fxevent.Invoked{FunctionName: "register", Err: boom},
			wantLevel: zapcore.ErrorLevel,
			wantMsg:   "Invoked failed",
			wantField: "function",
		},
		"signal": {
			event:     &fxevent.Stopping{Signal: os.Interrupt},
			wantLevel: zapcore.InfoLevel,
			wantMsg:   "Received signal",
			wantField: "signal",
		},
		"rolling back": {
			event:     &fxevent.RollingBack{StartErr: boom},
			wantLevel: zapcore.ErrorLevel,
			wantMsg:   "Start failed, rolling back",
			wantField: "error",
		},
		"started": {
			event:     &fxevent.Started{},
			wantLevel: zapcore.InfoLevel,
			wantMsg:   "Started",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			logger, logs := observed(zapcore.DebugLevel)
			infrastructure.NewFxLoggerAdapter(logger).LogEvent(tt.event)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0].Level)
			assert.Equal(t, tt.wantMsg, entries[0].Message)
			assert.Equal(t, "fx", entries[0].LoggerName)
			if tt.wantField != "" {
				assert.Contains(t, entries[0].ContextMap(), tt.wantField)
			}
		})
	}
}

func TestFxLogger_QuietAtInfo(t *testing.T) {
	logger, logs := observed(zapcore.InfoLevel)
	adapter := infrastructure.NewFxLoggerAdapter(logger)

	adapter.LogEvent(&fxevent.Provided{ConstructorName: "NewPlayer"})
	adapter.LogEvent(&fxevent.Invoking{FunctionName: "register"})
	adapter.LogEvent(&fxevent.OnStartExecuting{FunctionName: "start"})

	assert.Zero(t, logs.Len())
}

func TestFxLogger_WithApp(t *testing.T) {
	logger, logs := observed(zapcore.DebugLevel)

	app := fxtest.New(t,
		fx.WithLogger(func() fxevent.Logger { return infrastructure.NewFxLoggerAdapter(logger) }),
		fx.Provide(func() string { return "config.yaml" }),
		fx.Invoke(func(string) {}),
	)
	app.RequireStart().RequireStop()

	assert.NotZero(t, logs.FilterMessage("Started").Len())
	assert.NotZero(t, logs.FilterMessage("Invoked").Len())
}
