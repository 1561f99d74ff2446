package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/auth"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/invitation"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/usecase"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/authz"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/infrastructure/migrate"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/infrastructure/postgres"
	httpRouter "github.com/longsangsabo2025/SABOHUB-sub001/internal/interfaces/http"
	"github.com/longsangsabo2025/SABOHUB-sub001/pkg/config"
	"github.com/longsangsabo2025/SABOHUB-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Migraciones antes de servir: si una unidad está fallida no se arranca.
	store := postgres.NewMigrationStore(pool)
	sequencer := migrate.NewSequencer(store, store, store, log)
	applied, err := sequencer.Run(ctx, migrate.Units())
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Int("applied", applied).Msg("migraciones al día")

	// El motor de políticas se arma una vez con las reglas sembradas; la
	// evaluación por request es puramente en memoria.
	rules, err := postgres.NewPolicyRuleRepository(pool).List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar reglas de política")
	}
	engine := authz.NewEngine(rules)

	companyRepo := postgres.NewCompanyRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	invitationRepo := postgres.NewInvitationRepository(pool)

	resolver := auth.NewClaimsResolver(userRepo, companyRepo)
	hook := auth.NewTokenIssuerHook(resolver, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, time.Duration(cfg.Hook.TimeoutMS)*time.Millisecond)
	authUC := auth.NewAuthUseCase(userRepo, hook)

	companyUC := usecase.NewCompanyUseCase(companyRepo, postgres.NewBootstrapTxRunner(pool), engine)
	branchUC := usecase.NewBranchUseCase(branchRepo, engine)
	userUC := usecase.NewUserUseCase(userRepo, branchRepo, engine)
	invitationUC := invitation.NewUseCase(invitationRepo, branchRepo, postgres.NewTxRunner(pool))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CompanyUC:    companyUC,
		BranchUC:     branchUC,
		UserUC:       userUC,
		InvitationUC: invitationUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
