package configs

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort int

	DBDriver   string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBNameTest string
	SQLitePath string

	RedisHost     string
	RedisPort     int
	RedisPassword string

	JWTSecret string
	TokenTTL  time.Duration

	StorageDir     string
	PublicBaseURL  string
	MaxUploadBytes int64
	SweepInterval  time.Duration
	OrphanGrace    time.Duration

	LogDir       string
	CORSOrigins  string
	RateLimitMax int
}

func LoadConfig() Config {
	// Muat file .env
	if err := godotenv.Load(); err != nil {
		// Hanya log jika tidak dalam mode test
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using environment and default values")
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", 3004)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 10501)
	v.SetDefault("DB_USER", "")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "smartcollab")
	v.SetDefault("DB_NAME_TEST", "smartcollab_test")
	v.SetDefault("SQLITE_PATH", "data/smartcollab.db")
	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "secret")
	v.SetDefault("TOKEN_TTL", time.Hour)
	v.SetDefault("STORAGE_DIR", "uploads")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:3004")
	v.SetDefault("MAX_UPLOAD_BYTES", int64(10<<20))
	v.SetDefault("SWEEP_INTERVAL", time.Hour)
	v.SetDefault("ORPHAN_GRACE", 15*time.Minute)
	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_MAX", 100)

	return Config{
		AppPort: v.GetInt("APP_PORT"),

		DBDriver:   v.GetString("DB_DRIVER"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetInt("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBNameTest: v.GetString("DB_NAME_TEST"),
		SQLitePath: v.GetString("SQLITE_PATH"),

		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetInt("REDIS_PORT"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),

		JWTSecret: v.GetString("JWT_SECRET"),
		TokenTTL:  v.GetDuration("TOKEN_TTL"),

		StorageDir:     v.GetString("STORAGE_DIR"),
		PublicBaseURL:  v.GetString("PUBLIC_BASE_URL"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		SweepInterval:  v.GetDuration("SWEEP_INTERVAL"),
		OrphanGrace:    v.GetDuration("ORPHAN_GRACE"),

		LogDir:       v.GetString("LOG_DIR"),
		CORSOrigins:  v.GetString("CORS_ORIGINS"),
		RateLimitMax: v.GetInt("RATE_LIMIT_MAX"),
	}
}
