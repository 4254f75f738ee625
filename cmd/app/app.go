package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mintly/mintly-api/internal/api"
	"github.com/mintly/mintly-api/internal/config"
	"github.com/mintly/mintly-api/internal/db"
	"github.com/mintly/mintly-api/internal/logger"
	"github.com/mintly/mintly-api/internal/pkg/rabbitmq"
	"github.com/mintly/mintly-api/internal/pkg/redisstore"
	"github.com/mintly/mintly-api/internal/repository/dao"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment, conf.Log); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	conf.OnChange(func(updated *config.AppConfig) {
		if err := logger.SetLevel(updated.Log.Level); err != nil {
			zap.L().Warn("ignoring invalid log level", zap.String("level", updated.Log.Level), zap.Error(err))
			return
		}
		zap.L().Info("log level changed", zap.String("level", updated.Log.Level))
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbURL := os.Getenv("DATABASE_URL")
	var gormDB *gorm.DB
	if dbURL != "" {
		gormDB, err = db.OpenPostgresURL(dbURL, conf.Postgres)
	} else {
		gormDB, err = db.Open(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(gormDB); err != nil {
		return fmt.Errorf("failed to migrate database -> %w", err)
	}

	var deps api.Dependencies

	if conf.Redis.Enabled() {
		rdb, err := redisstore.Connect(ctx, conf.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis -> %w", err)
		}
		defer func() { _ = rdb.Close() }()
		deps.Idempotency = redisstore.NewIdempotencyStore(rdb, conf.Redis.IdempotencyTTL)
	}

	if conf.RabbitMQ.Enabled() {
		publisher, err := rabbitmq.NewPublisher(conf.RabbitMQ.URL, conf.RabbitMQ.Exchange)
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq -> %w", err)
		}
		defer publisher.Close()
		deps.Publisher = publisher
	}

	s := api.NewServer(conf, gormDB, deps)

	if err = s.Run(ctx); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
