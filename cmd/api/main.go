package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopcart/internal/config"
	"shopcart/internal/handler"
	"shopcart/internal/infra/db"
	infraRepo "shopcart/internal/infra/repository"
	"shopcart/internal/infra/token"
	"shopcart/internal/logger"
	"shopcart/internal/metrics"
	"shopcart/internal/middleware"
	"shopcart/internal/server"
	"shopcart/internal/usecase"
	auth "shopcart/internal/usecase/auth_usecase"

	"go.uber.org/zap"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(cfg.GoEnv, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}
	if cfg.SeedCategories {
		n, err := db.SeedCategories(ctx, gormDB)
		if err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
		log.Info("categories seeded", zap.Int64("inserted", n))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}
	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := token.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)
	productUC := usecase.NewProductUsecase(productRepo, log)
	cartUC := usecase.NewCartUsecase(txm, cartRepo, log, usecase.WithStrictAddCheck(cfg.CartStrictAddCheck))

	//Handler生成
	handlers := server.Handlers{
		Auth:    handler.NewAuthHandler(registerUC, loginUC, log),
		Product: handler.NewProductHandler(productUC),
		Cart:    handler.NewCartHandler(cartUC),
	}

	e := server.New(log, handlers, middleware.AuthJWT(issuer), metrics.NewServerMetrics())
	return server.Start(ctx, e, ":"+cfg.Port, log)
}
