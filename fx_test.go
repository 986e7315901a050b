package zuora

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/smallbiznis/zuora/pkg/log"
)

func TestModuleGraph(t *testing.T) {
	err := fx.ValidateApp(
		log.Module,
		Module,
		fx.Provide(
			func() Transport { return &fakeTransport{} },
			func() prometheus.Registerer { return prometheus.NewRegistry() },
		),
		fx.Invoke(func(*Client) {}),
	)
	require.NoError(t, err)
}
