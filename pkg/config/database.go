package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/blogsphere/backend/internal/models"
	"github.com/blogsphere/backend/internal/repositories"
	"github.com/jackc/pgx/v5/stdlib"

	pgxdrv "github.com/jackc/pgx/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitStore opens the storage backend selected by STORAGE_BACKEND and
// returns the assembled store plus a close function for main to defer.
func InitStore(cfg *Config) (*repositories.Store, func(), error) {
	switch cfg.StorageBackend {
	case BackendPostgres:
		return initPostgresStore(cfg)
	case BackendPgx:
		return initPgxStore(cfg)
	case BackendMongo:
		return initMongoStore(cfg)
	case BackendFile:
		store, err := repositories.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using flat-file store in %s", cfg.DataDir)
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// initPostgresStore connects through GORM and migrates the schema.
func initPostgresStore(cfg *Config) (*repositories.Store, func(), error) {
	if cfg.PostgresURL == "" {
		return nil, nil, fmt.Errorf("POSTGRES_CONN_STR environment variable not set")
	}

	// TranslateError makes unique violations surface as gorm.ErrDuplicatedKey.
	db, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
	); err != nil {
		return nil, nil, fmt.Errorf("failed to auto migrate models: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL (gorm)!")
	closeFn := func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing PostgreSQL connection: %v", err)
		}
	}
	return repositories.NewPostgresStore(db), closeFn, nil
}

// initPgxStore connects through database/sql with the pgx stdlib driver.
func initPgxStore(cfg *Config) (*repositories.Store, func(), error) {
	if cfg.PostgresURL == "" {
		return nil, nil, fmt.Errorf("POSTGRES_CONN_STR environment variable not set")
	}

	pgxCfg, err := pgxdrv.ParseConfig(cfg.PostgresURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse PostgreSQL DSN: %w", err)
	}
	db := stdlib.OpenDB(*pgxCfg)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	store, err := repositories.NewPgxStore(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	log.Println("Successfully connected to PostgreSQL (pgx)!")
	closeFn := func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing PostgreSQL connection: %v", err)
		}
	}
	return store, closeFn, nil
}

// initMongoStore connects to MongoDB and ensures the unique indexes.
func initMongoStore(cfg *Config) (*repositories.Store, func(), error) {
	if cfg.MongoURI == "" {
		return nil, nil, fmt.Errorf("MONGO_URI environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	store, err := repositories.NewMongoStore(ctx, client.Database(cfg.MongoDatabase))
	if err != nil {
		return nil, nil, err
	}
	log.Println("Successfully connected to MongoDB!")
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}
	return store, closeFn, nil
}
