package app

import (
	"database/sql"

	"go-payroll/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the connections of one process. Redis is nil when
// REDIS_ADDR is not set.
type Infra struct {
	GormDB *gorm.DB
	DB     *sql.DB
	Redis  *redis.Client
}

func Connect(cfg *Config) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		cfg.ConnectRetries,
	)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	infra := &Infra{GormDB: gormDB, DB: sqlDB}
	if cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		infra.Redis = rdb
	}
	return infra, nil
}

func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	_ = i.DB.Close()
}

// BuildApp connects the infrastructure and registers every module on router.
// The returned cleanup closes the connections.
func BuildApp(router *gin.Engine, cfg *Config) (func(), error) {
	logger := zap.L().Named("app.api")

	if err := cfg.RequireAPI(); err != nil {
		return nil, err
	}

	infra, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	if infra.Redis == nil {
		logger.Warn("REDIS_ADDR not set, idempotency keys and run locks are disabled")
	}

	m, err := buildModules(cfg, infra, logger)
	if err != nil {
		infra.Close()
		return nil, err
	}
	registerRoutes(router, cfg, m, infra.Redis, logger)

	return infra.Close, nil
}
