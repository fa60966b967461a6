package observe

import (
	"go.uber.org/fx"
)

// Module provides metrics and the observability endpoint.
var Module = fx.Module("observe",
	fx.Provide(
		InitProvider,
		ProvideMetrics,
		NewServer,
	),
	fx.Invoke(func(*Server) {}),
)
