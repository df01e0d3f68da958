package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Config 结构体用于存储应用程序的配置信息
type Config struct {
	ListenAddr         string
	DBDriver           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	JWTSecret          string
	LogLevel           string
	PostsPerPage       int
	IndexCacheTTL      time.Duration
	StorageDriver      string
	LocalStoragePath   string
	S3Region           string
	S3Bucket           string
	GCSProjectID       string
	GCSBucketName      string
	GCSCredentialsFile string
	MaxUploadBytes     int64
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPFrom           string
	FrontendURL        string
	Debug              bool
}

// AppConfig 是全局配置变量
var AppConfig = Defaults()

// Defaults 返回未设置环境变量时使用的默认配置
func Defaults() Config {
	return Config{
		ListenAddr:       ":8080",
		DBDriver:         "mysql",
		LogLevel:         "info",
		PostsPerPage:     10,
		IndexCacheTTL:    20 * time.Second,
		StorageDriver:    "local",
		LocalStoragePath: "./media",
		MaxUploadBytes:   5 << 20,
		SMTPPort:         465,
		FrontendURL:      "http://localhost:5173",
	}
}

// Init 加载 .env 并从环境变量中读取配置
func Init() error {
	if err := godotenv.Load(); err != nil {
		log.Printf("警告：无法加载 .env 文件: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		return err
	}
	AppConfig = cfg

	if AppConfig.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Printf("配置加载完成。数据库驱动：%s，存储：%s，每页帖子数：%d", AppConfig.DBDriver, AppConfig.StorageDriver, AppConfig.PostsPerPage)
	return nil
}

// Load 从环境变量读取配置，不修改 AppConfig
func Load() (Config, error) {
	d := Defaults()
	cfg := Config{
		ListenAddr:         getEnv("LISTEN_ADDR", d.ListenAddr),
		DBDriver:           getEnv("DB_DRIVER", d.DBDriver),
		DBHost:             getEnv("DB_HOST", ""),
		DBPort:             getEnv("DB_PORT", "3306"),
		DBUser:             getEnv("DB_USER", ""),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		LogLevel:           getEnv("LOG_LEVEL", d.LogLevel),
		PostsPerPage:       getEnvAsInt("POSTS_PER_PAGE", d.PostsPerPage),
		IndexCacheTTL:      getEnvAsDuration("INDEX_CACHE_TTL", d.IndexCacheTTL),
		StorageDriver:      getEnv("STORAGE_DRIVER", d.StorageDriver),
		LocalStoragePath:   getEnv("LOCAL_STORAGE_PATH", d.LocalStoragePath),
		S3Region:           getEnv("S3_REGION", "us-west-2"),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		GCSProjectID:       getEnv("GCS_PROJECT_ID", ""),
		GCSBucketName:      getEnv("GCS_BUCKET_NAME", ""),
		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		MaxUploadBytes:     int64(getEnvAsInt("MAX_UPLOAD_BYTES", int(d.MaxUploadBytes))),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvAsInt("SMTP_PORT", d.SMTPPort),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:           getEnv("SMTP_FROM", ""),
		FrontendURL:        getEnv("FRONTEND_URL", d.FrontendURL),
		Debug:              getEnvAsBool("DEBUG", false),
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(key, "")
	if val, err := time.ParseDuration(valStr); err == nil {
		return val
	}
	return defaultVal
}

func validateConfig(cfg Config) error {
	switch cfg.DBDriver {
	case "mysql":
		if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "" {
			return errors.New("database config incomplete: DB_HOST, DB_USER and DB_NAME are required")
		}
	case "memory":
	default:
		return errors.New("unknown DB_DRIVER: " + cfg.DBDriver)
	}

	if cfg.JWTSecret == "" && !cfg.Debug {
		return errors.New("JWT_SECRET is required")
	}

	if cfg.PostsPerPage < 1 {
		return errors.New("POSTS_PER_PAGE must be positive")
	}

	switch cfg.StorageDriver {
	case "local":
	case "s3":
		if cfg.S3Bucket == "" {
			return errors.New("S3_BUCKET is required for the s3 storage driver")
		}
	case "gcs":
		if cfg.GCSBucketName == "" {
			return errors.New("GCS_BUCKET_NAME is required for the gcs storage driver")
		}
	default:
		return errors.New("unknown STORAGE_DRIVER: " + cfg.StorageDriver)
	}
	return nil
}
