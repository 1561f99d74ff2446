// Comando migrate: ejecuta una pasada del secuenciador de migraciones y
// termina. Útil en pipelines de despliegue donde las migraciones corren antes
// de levantar las réplicas del API.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/infrastructure/migrate"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/infrastructure/postgres"
	"github.com/longsangsabo2025/SABOHUB-sub001/pkg/config"
	"github.com/longsangsabo2025/SABOHUB-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	store := postgres.NewMigrationStore(pool)
	sequencer := migrate.NewSequencer(store, store, store, log)
	applied, err := sequencer.Run(ctx, migrate.Units())
	if err != nil {
		var mf *migrate.MigrationFailed
		if errors.As(err, &mf) {
			log.Error().
				Str("unit", mf.UnitID).
				Int("position", mf.Position).
				Err(mf.Cause).
				Msg("migración fallida; requiere resolución manual")
		} else {
			log.Error().Err(err).Msg("migraciones")
		}
		os.Exit(1)
	}
	log.Info().Int("applied", applied).Msg("migraciones al día")
}
