package postgres

import (
	"log"

	"github.com/LavaJover/shvark-escrow-service/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MustInitDB открывает пул соединений. Схема накатывается миграциями, не AutoMigrate.
func MustInitDB(cfg *config.EscrowConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.EscrowDB.Dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v\n", err.Error())
	}
	sqlDB.SetMaxOpenConns(cfg.EscrowDB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.EscrowDB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.EscrowDB.ConnMaxLifetime)

	return db
}
