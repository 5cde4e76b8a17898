package catalog

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/verigate/internal/config"
)

// Module provides the check catalog.
var Module = fx.Provide(newCatalog)

func newCatalog(cfg *config.Config, logger *slog.Logger) (*Catalog, error) {
	c, err := Load(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	source := cfg.CatalogFile
	if source == "" {
		source = "embedded"
	}
	logger.Info("check catalog loaded", slog.String("source", source), slog.Int("checks", len(c.checks)))
	return c, nil
}
