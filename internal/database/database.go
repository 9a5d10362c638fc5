package database

import (
	"context"
	"fmt"
	"time"

	"hotfood/internal/config"
	"hotfood/internal/repositories"

	"github.com/gofiber/fiber/v2/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectTimeout = 10 * time.Second

// Store is an open database and the repositories over it.
type Store struct {
	Repos repositories.Repositories
	close func(context.Context) error
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the database selected by cfg.DBDriver and prepares its schema.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		return openMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverPostgres:
		return openGORM(postgres.Open(cfg.DatabaseDSN))
	case config.DriverSQLite:
		return openGORM(sqlite.Open(cfg.DatabaseDSN))
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
}

// OpenGORM opens dialector, migrates the schema and wraps it in a Store.
func OpenGORM(dialector gorm.Dialector) (*Store, *gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := repositories.AutoMigrate(db); err != nil {
		return nil, nil, err
	}
	store := &Store{
		Repos: repositories.NewGORMRepositories(db),
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
	return store, db, nil
}

func openGORM(dialector gorm.Dialector) (*Store, error) {
	store, _, err := OpenGORM(dialector)
	if err != nil {
		return nil, err
	}
	log.Infof("connected to %s database", dialector.Name())
	return store, nil
}

func openMongo(ctx context.Context, uri, name string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	db := client.Database(name)
	if err := repositories.EnsureMongoIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Infof("connected to mongo database %s", name)
	return &Store{
		Repos: repositories.NewMongoRepositories(db),
		close: client.Disconnect,
	}, nil
}
