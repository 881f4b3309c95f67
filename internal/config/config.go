package config

import (
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/naeri/kokoto-httpd/internal/cache"
	"github.com/naeri/kokoto-httpd/internal/compress"
)

// Config is read from the environment; a .env file is loaded when present.
type Config struct {
	Env         string
	DB          string // postgres or sqlite
	DBPath      string // sqlite file path
	DBUrl       string // postgres dsn
	RedisAddr   string // empty disables the revision cache
	Compression string // none, gzip, brotli or lz4
}

func LoadConfig() *Config {
	return &Config{
		Env:         getEnv("ENV", "dev"),
		DB:          getEnv("DB", "sqlite"),
		DBPath:      getEnv("DB_PATH", ".db/kokoto.db"),
		DBUrl:       os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		Compression: getEnv("COMPRESSION", "none"),
	}
}

// GetDb opens the configured database. TranslateError is on so that
// unique-constraint violations surface as gorm.ErrDuplicatedKey on every
// dialect.
func GetDb(cnf *Config) *gorm.DB {
	var dialector gorm.Dialector
	switch cnf.DB {
	case "postgres":
		dialector = postgres.Open(cnf.DBUrl)
	default:
		if err := os.MkdirAll(filepath.Dir(cnf.DBPath), os.ModePerm); err != nil {
			logrus.Fatalf("error creating database directory: %v", err)
		}
		dialector = sqlite.Open(cnf.DBPath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("error connecting to database: %v", err)
	}

	return db
}

// GetCompress returns the configured content codec.
func GetCompress(cnf *Config) compress.Compress {
	switch cnf.Compression {
	case "gzip":
		return compress.NewGZip()
	case "brotli":
		return compress.NewBrotli()
	case "lz4":
		return compress.NewLZ4()
	default:
		return compress.NewNop()
	}
}

// GetCache returns the revision cache, or nil when no redis address is set.
func GetCache(cnf *Config) *cache.Redis {
	if cnf.RedisAddr == "" {
		return nil
	}
	return cache.NewRedis(cnf.RedisAddr)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
