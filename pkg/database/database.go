package database

import (
	"context"
	"errors"
	"fmt"

	"marketing-api/internal/model"
	"marketing-api/pkg/config"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the connection pool, runs the idempotent schema migration and
// seeds the demo tenant. Safe to call on every boot: AutoMigrate only adds
// what is absent and the seed inserts ignore existing rows.
//
// Callers must not treat a returned error as fatal; the process keeps
// serving so the health endpoint can report degraded readiness and an
// orchestrator can retry.
func InitDB(cfg *config.Config) error {
	// PreferSimpleProtocol avoids "prepared statement already exists" errors
	// behind connection poolers
	pgConfig := postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true,
	}

	db, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.DB.LogLevel),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	DB = db

	if err := migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	if err := seedDemoTenant(db, cfg); err != nil {
		return fmt.Errorf("seed demo tenant: %w", err)
	}

	return nil
}

// migrate creates or upgrades the nine tables. Additive only.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.UserTenant{},
		&model.Campaign{},
		&model.AppEvent{},
		&model.AnalyticsEvent{},
		&model.RecommendationLog{},
		&model.CampaignResult{},
		&model.AuditLog{},
	)
}

// seedDemoTenant inserts exactly one tenant, one user and one membership,
// keyed by primary key so repeated boots never duplicate demo data.
func seedDemoTenant(db *gorm.DB, cfg *config.Config) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Demo.UserPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tenant := model.Tenant{
		ID:   cfg.Demo.TenantID,
		Name: cfg.Demo.TenantName,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tenant).Error; err != nil {
		return err
	}

	user := model.User{
		ID:       cfg.Demo.UserID,
		Email:    cfg.Demo.UserEmail,
		Name:     "Demo User",
		Password: string(hash),
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
		return err
	}

	membership := model.UserTenant{
		UserID:    cfg.Demo.UserID,
		TenantID:  cfg.Demo.TenantID,
		Role:      model.RoleAdmin,
		IsDefault: true,
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&membership).Error
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// Ping reports whether the database is reachable
func Ping(ctx context.Context) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close drains the connection pool. Called on graceful shutdown after the
// HTTP server has stopped accepting requests.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
