package app

import (
	"context"
	"database/sql"
	"fmt"

	"go-emp-mgmt/internal/attendance"
	"go-emp-mgmt/internal/config"
	"go-emp-mgmt/internal/employee"
	"go-emp-mgmt/internal/messaging/kafka"
	"go-emp-mgmt/internal/shared/connection"

	"go.uber.org/zap"
)

// recordStore holds the repositories of the configured backend. sqlDB and
// outbox are nil for MongoDB.
type recordStore struct {
	sqlDB      *sql.DB
	employees  employee.Repository
	attendance attendance.Repository
	outbox     kafka.OutboxRepository
	close      func()
}

func openRecordStore(ctx context.Context, cfg config.Config) (*recordStore, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return openMongoStore(ctx, cfg)
	case config.DriverPostgres:
		return openPostgresStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER: %s", cfg.StoreDriver)
	}
}

func openPostgresStore(ctx context.Context, cfg config.Config) (*recordStore, error) {
	gormDB, err := connection.ConnectGORMWithRetry(connection.PostgresConfig{
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		Port:     cfg.DBPort,
		SSLMode:  cfg.DBSSLMode,
	}, cfg.MaxRetries)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	if err := gormDB.WithContext(ctx).AutoMigrate(&employee.Employee{}, &attendance.Attendance{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := kafka.Migrate(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate outbox: %w", err)
	}
	zap.L().Info("postgres record store ready")

	return &recordStore{
		sqlDB:      sqlDB,
		employees:  employee.NewRepository(gormDB),
		attendance: attendance.NewRepository(gormDB),
		outbox:     kafka.NewOutboxRepository(sqlDB),
		close:      func() { _ = sqlDB.Close() },
	}, nil
}

func openMongoStore(ctx context.Context, cfg config.Config) (*recordStore, error) {
	db, err := connection.ConnectMongoWithRetry(cfg.MongoURI, cfg.MongoDatabase, cfg.MaxRetries)
	if err != nil {
		return nil, err
	}

	disconnect := func() { _ = db.Client().Disconnect(context.Background()) }
	if err := employee.EnsureMongoIndexes(ctx, db); err != nil {
		disconnect()
		return nil, fmt.Errorf("employee indexes: %w", err)
	}
	if err := attendance.EnsureMongoIndexes(ctx, db); err != nil {
		disconnect()
		return nil, fmt.Errorf("attendance indexes: %w", err)
	}
	zap.L().Info("mongodb record store ready", zap.String("database", cfg.MongoDatabase))

	return &recordStore{
		employees:  employee.NewMongoRepository(db),
		attendance: attendance.NewMongoRepository(db),
		close:      disconnect,
	}, nil
}
