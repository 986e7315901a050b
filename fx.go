package zuora

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module wires the client into an fx application. The host supplies a
// Transport, a *zap.Logger and a prometheus.Registerer; configuration
// is read from the environment.
var Module = fx.Module("zuora.client",
	fx.Provide(
		LoadConfig,
		NewMetrics,
		newClient,
	),
)

func newClient(cfg Config, transport Transport, log *zap.Logger, metrics *Metrics) (*Client, error) {
	return New(cfg, transport,
		WithLogger(log),
		WithMetrics(metrics),
	)
}
