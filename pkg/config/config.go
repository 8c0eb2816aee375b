package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable consumed by the service.
	EnvPrefix = "MESALIVRE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	PIN    PINConfig
	Sync   SyncConfig
	GCP    GCPConfig
	PubSub PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MESALIVRE_APP_ENV" default:"dev"`
	Port         string `envconfig:"MESALIVRE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MESALIVRE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MESALIVRE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"MESALIVRE_DB_DSN" required:"true"`

	AutoMigrate bool `envconfig:"MESALIVRE_DB_AUTO_MIGRATE" default:"false"`

	MaxOpenConns    int           `envconfig:"MESALIVRE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MESALIVRE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MESALIVRE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MESALIVRE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MESALIVRE_REDIS_URL"`
	Address      string        `envconfig:"MESALIVRE_REDIS_ADDR"`
	Password     string        `envconfig:"MESALIVRE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MESALIVRE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MESALIVRE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MESALIVRE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MESALIVRE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MESALIVRE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MESALIVRE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MESALIVRE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MESALIVRE_JWT_ISSUER" default:"mesalivre"`
	ExpirationMinutes int    `envconfig:"MESALIVRE_JWT_EXPIRATION_MINUTES" default:"720"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// PINConfig carries the Argon2id parameters used for waiter PIN hashes.
type PINConfig struct {
	ArgonMemoryKB    int `envconfig:"MESALIVRE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MESALIVRE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MESALIVRE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MESALIVRE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MESALIVRE_ARGON_KEY_LEN" default:"32"`
}

// SyncConfig controls how terminals learn about floor changes: "push"
// reacts to Redis notifications, "poll" refetches on an interval.
type SyncConfig struct {
	Mode          string        `envconfig:"MESALIVRE_SYNC_MODE" default:"push"`
	PollInterval  time.Duration `envconfig:"MESALIVRE_SYNC_POLL_INTERVAL" default:"5s"`
	ReadyInterval time.Duration `envconfig:"MESALIVRE_SYNC_READY_INTERVAL" default:"5s"`
	ChangeChannel string        `envconfig:"MESALIVRE_SYNC_CHANGE_CHANNEL" default:"floor:changes"`

	SessionMaxIdle time.Duration `envconfig:"MESALIVRE_SESSION_MAX_IDLE" default:"8h"`
	SweepInterval  time.Duration `envconfig:"MESALIVRE_SESSION_SWEEP_INTERVAL" default:"10m"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"MESALIVRE_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	PrintTopic        string `envconfig:"MESALIVRE_PUBSUB_PRINT_TOPIC" default:"print-jobs"`
	PrintSubscription string `envconfig:"MESALIVRE_PUBSUB_PRINT_SUBSCRIPTION" default:"print-jobs-worker"`
}
