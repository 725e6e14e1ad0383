package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// STORAGE_DRIVERで指定できるストレージドライバー
const (
	DriverPostgres  = "postgres"
	DriverSupabase  = "supabase"
	DriverFirestore = "firestore"
	DriverMemory    = "memory"
)

// Config 環境変数から読み込むアプリケーション設定（.envがあれば先に読み込む）
type Config struct {
	Port          string
	PublicBaseURL string
	BackendURL    string // 空の場合はプロセス内のバックエンドを使用
	LogLevel      string

	StorageDriver      string
	DatabaseURL        string
	SupabaseURL        string
	SupabaseAnonKey    string
	FirestoreProjectID string

	IBGEBaseURL    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RegionCacheTTL time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	KafkaBroker string
	KafkaTopic  string

	SessionTTL         time.Duration
	GeolocationTimeout time.Duration
}

// LoadDotEnv .envを環境変数に読み込む（ファイルがなくてもエラーにしない）
func LoadDotEnv(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

// Load 環境変数から設定を読み込む
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "3333"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3333"), "/"),
		BackendURL:    os.Getenv("BACKEND_URL"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		StorageDriver:      getEnv("STORAGE_DRIVER", DriverMemory),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
		FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),

		IBGEBaseURL:   os.Getenv("IBGE_BASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		MinioBucket:    getEnv("MINIO_BUCKET", "uploads"),

		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "ecoleta.points"),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RegionCacheTTL, err = getDuration("REGION_CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.GeolocationTimeout, err = getDuration("GEOLOCATION_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("STORAGE_DRIVER=%s にはDATABASE_URLが必要です", c.StorageDriver)
		}
	case DriverSupabase:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			return fmt.Errorf("STORAGE_DRIVER=%s にはSUPABASE_URLとSUPABASE_ANON_KEYが必要です", c.StorageDriver)
		}
	case DriverFirestore:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("STORAGE_DRIVER=%s にはFIRESTORE_PROJECT_IDが必要です", c.StorageDriver)
		}
	default:
		return fmt.Errorf("不明なSTORAGE_DRIVERです: %q", c.StorageDriver)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
