// Package database 负责 Postgres 连接、连接池与表结构迁移
package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/voxe-ai/voxe-knowledge/internal/config"
	"github.com/voxe-ai/voxe-knowledge/internal/model"
)

const pingTimeout = 5 * time.Second

// DB 数据库句柄，嵌入 gorm.DB 供仓库层直接使用
type DB struct {
	*gorm.DB
}

// New 建立连接并完成启动前的准备：连接池参数、连通性确认、结构迁移
// 迁移失败直接返回错误，带着不完整的表结构启动没有意义
func New(cfg *config.Config) (*DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg)),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.MaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := db.AutoMigrate(model.AllModels...); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &DB{DB: db}, nil
}

// gormLogLevel 调试模式打印 SQL，否则保持安静
func gormLogLevel(cfg *config.Config) gormlogger.LogLevel {
	if cfg.App.Debug {
		return gormlogger.Info
	}
	return gormlogger.Silent
}

// Close 关闭底层连接池
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping 健康检查用的连通性探测
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
