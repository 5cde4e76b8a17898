package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/verigate/internal/adapter/provider"
	"github.com/polkiloo/verigate/internal/app"
	"github.com/polkiloo/verigate/internal/catalog"
	"github.com/polkiloo/verigate/internal/config"
	"github.com/polkiloo/verigate/internal/logger"
	"github.com/polkiloo/verigate/internal/metrics"
	"github.com/polkiloo/verigate/internal/pkg/auth"
	"github.com/polkiloo/verigate/internal/server/http/handlers"
	"github.com/polkiloo/verigate/internal/server/http/router"
	"github.com/polkiloo/verigate/internal/storage/postgres"
	"github.com/polkiloo/verigate/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		catalog.Module,
		auth.Module,
		postgres.Module,
		provider.Module,
		usecase.Module,
		fx.Provide(
			func(m *metrics.Metrics) usecase.Recorder { return m },
			func(c *catalog.Catalog) usecase.QuotaPlanner { return c },
			func(c provider.Client) app.Provider { return c },
			func(s *postgres.Storage) app.HealthChecker { return s },
			func(f *app.VerificationFacade) handlers.Facade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
