// Package infrastructure bridges fx's own logging onto zap.
package infrastructure

import (
	"fmt"

	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// FxLogger writes fx lifecycle events as structured zap entries. Failures are
// logged at error level; routine wiring only at debug.
type FxLogger struct {
	logger *zap.Logger
}

// NewFxLoggerAdapter returns an fxevent.Logger backed by logger.
func NewFxLoggerAdapter(logger *zap.Logger) fxevent.Logger {
	return &FxLogger{logger: logger.Named("fx")}
}

// LogEvent implements fxevent.Logger.
func (l *FxLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		l.logger.Debug("OnStart hook executing", zap.String("callee", e.FunctionName), zap.String("caller", e.CallerName))
	case *fxevent.OnStartExecuted:
		l.hook("OnStart", e.FunctionName, e.CallerName, e.Runtime.String(), e.Err)
	case *fxevent.OnStopExecuting:
		l.logger.Debug("OnStop hook executing", zap.String("callee", e.FunctionName), zap.String("caller", e.CallerName))
	case *fxevent.OnStopExecuted:
		l.hook("OnStop", e.FunctionName, e.CallerName, e.Runtime.String(), e.Err)
	case *fxevent.Supplied:
		l.result("Supplied", e.Err, zap.String("type", e.TypeName), zap.String("module", e.ModuleName))
	case *fxevent.Provided:
		l.result("Provided", e.Err,
			zap.String("constructor", e.ConstructorName),
			zap.Strings("types", e.OutputTypeNames),
			zap.String("module", e.ModuleName))
	case *fxevent.Decorated:
		l.result("Decorated", e.Err,
			zap.String("decorator", e.DecoratorName),
			zap.Strings("types", e.OutputTypeNames))
	case *fxevent.Invoking:
		l.logger.Debug("Invoking", zap.String("function", e.FunctionName), zap.String("module", e.ModuleName))
	case *fxevent.Invoked:
		l.result("Invoked", e.Err, zap.String("function", e.FunctionName), zap.String("module", e.ModuleName))
	case *fxevent.Stopping:
		l.logger.Info("Received signal", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		l.outcome("Stopped", e.Err)
	case *fxevent.RollingBack:
		l.logger.Error("Start failed, rolling back", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		l.outcome("Rolled back", e.Err)
	case *fxevent.Started:
		l.outcome("Started", e.Err)
	case *fxevent.LoggerInitialized:
		l.result("Logger initialized", e.Err, zap.String("constructor", e.ConstructorName))
	default:
		l.logger.Debug("Unhandled fx event", zap.String("event", fmt.Sprintf("%T", event)))
	}
}

func (l *FxLogger) hook(kind, callee, caller, runtime string, err error) {
	fields := []zap.Field{zap.String("callee", callee), zap.String("caller", caller)}
	if err != nil {
		l.logger.Error(kind+" hook failed", append(fields, zap.Error(err))...)
		return
	}
	l.logger.Debug(kind+" hook executed", append(fields, zap.String("runtime", runtime))...)
}

// result logs routine wiring at debug and failures at error.
func (l *FxLogger) result(msg string, err error, fields ...zap.Field) {
	if err != nil {
		l.logger.Error(msg+" failed", append(fields, zap.Error(err))...)
		return
	}
	l.logger.Debug(msg, fields...)
}

// outcome logs application state changes at info.
func (l *FxLogger) outcome(msg string, err error) {
	if err != nil {
		l.logger.Error(msg+" with error", zap.Error(err))
		return
	}
	l.logger.Info(msg)
}
