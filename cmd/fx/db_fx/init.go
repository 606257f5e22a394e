package db_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"subgate/internal/config"
	"subgate/internal/infra"
)

var Module = fx.Provide(
	provideDB)

// InitPostgresql migrates the schema itself, so the provider is just the
// connection.
func provideDB(cfg *config.Config) *gorm.DB {
	return infra.InitPostgresql(cfg)
}
