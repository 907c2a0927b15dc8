package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/calzastore/internal/application/catalog"
	"github.com/tu-usuario/calzastore/internal/application/order"
	"github.com/tu-usuario/calzastore/internal/infrastructure/localstore"
	"github.com/tu-usuario/calzastore/internal/infrastructure/postgres"
	"github.com/tu-usuario/calzastore/internal/infrastructure/upstream"
	httpRouter "github.com/tu-usuario/calzastore/internal/interfaces/http"
	"github.com/tu-usuario/calzastore/pkg/config"
	"github.com/tu-usuario/calzastore/pkg/logger"
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
		Str("upstream", cfg.Upstream.BaseURL).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	shoeRepo := postgres.NewShoeRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	upstreamClient := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	syncUC := catalog.NewSyncUseCase(upstreamClient, txRunner, shoeRepo, log)

	local := localstore.NewFileStore(cfg.Local.Path)
	outbox := order.NewOutbox(local)
	orderUC := order.NewUseCase(orderRepo, outbox, log)

	// Flusher del outbox: el único lazo de reintento del sistema.
	flushCtx, stopFlusher := context.WithCancel(ctx)
	flusher := order.NewFlusher(orderUC, cfg.Outbox.FlushInterval, log)
	go flusher.Run(flushCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Calzastore API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SyncUC:    syncUC,
		OrderUC:   orderUC,
		JWTSecret: cfg.IDP.JWTSecret,
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
	stopFlusher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
