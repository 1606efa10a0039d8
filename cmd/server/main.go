package main // Entry point package

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/zenithmfg/order-tracking/internal/config"
	"github.com/zenithmfg/order-tracking/internal/database"
	"github.com/zenithmfg/order-tracking/internal/erp"
	"github.com/zenithmfg/order-tracking/internal/handler"
	"github.com/zenithmfg/order-tracking/internal/logger"
	"github.com/zenithmfg/order-tracking/internal/queue"
	"github.com/zenithmfg/order-tracking/internal/repository"
	"github.com/zenithmfg/order-tracking/internal/router"
	"github.com/zenithmfg/order-tracking/internal/service"
	"github.com/zenithmfg/order-tracking/internal/token"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, database.Pool{
		MaxOpen:     cfg.DBMaxOpen,
		MaxIdle:     cfg.DBMaxIdle,
		MaxLifetime: cfg.DBMaxLifetime,
	})
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	orders := repository.NewOrderRepo(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Bootstrap(ctx, db); err != nil {
		log.Fatal("schema bootstrap failed", zap.Error(err))
	}
	if err := database.SeedAdmin(ctx, users, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost); err != nil {
		log.Fatal("admin seed failed", zap.Error(err))
	}
	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)

	facade := erp.NewFacade(
		erp.NewHTTPConnector(erp.SystemLogicMate, cfg.LogicMateURL, cfg.LogicMateKey, cfg.ERPTimeout),
		erp.NewHTTPConnector(erp.SystemSuntec, cfg.SuntecURL, cfg.SuntecKey, cfg.ERPTimeout),
	)

	authH := handler.NewAuthHandler(cfg, codec, users)
	orderH := handler.NewOrderHandler(cfg, orders, users, service.NewPublisher())
	erpH := handler.NewERPHandler(cfg, facade)

	// Background consumer turns status events into log lines; it keeps
	// reconnecting on its own if the broker is away.
	go queue.StartStatusConsumer()

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAPI(e, codec, users, authH, orderH, erpH,
		config.LoadRateLimitConfig(), config.NewRedisClient())

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
