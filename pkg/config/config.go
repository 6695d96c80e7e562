package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendPgx      = "pgx"
	BackendMongo    = "mongo"
	BackendFile     = "file"
)

type Config struct {
	Port           string
	Env            string
	StorageBackend string
	PostgresURL    string
	MongoURI       string
	MongoDatabase  string
	DataDir        string
	UploadDir      string
	JWTSecret      string
	AdminPassword  string
}

func Load() *Config {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		StorageBackend: getEnv("STORAGE_BACKEND", BackendFile),
		PostgresURL:    getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:       getEnv("MONGO_URI", ""),
		MongoDatabase:  getEnv("MONGO_DATABASE", "blogsphere"),
		DataDir:        getEnv("DATA_DIR", "data"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		JWTSecret:      getEnv("JWT_SECRET", "supersecretjwtkey"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
