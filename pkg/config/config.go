package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Barcode       BarcodeConfig
	Audit         AuditConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FURNISTOCK_APP_ENV" required:"true"`
	Port         string `envconfig:"FURNISTOCK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FURNISTOCK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FURNISTOCK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FURNISTOCK_DB_DSN"`
	Driver string `envconfig:"FURNISTOCK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"FURNISTOCK_DB_HOST"`
	Port     int    `envconfig:"FURNISTOCK_DB_PORT" default:"5432"`
	User     string `envconfig:"FURNISTOCK_DB_USER"`
	Password string `envconfig:"FURNISTOCK_DB_PASSWORD"`
	Name     string `envconfig:"FURNISTOCK_DB_NAME"`
	SSLMode  string `envconfig:"FURNISTOCK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FURNISTOCK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FURNISTOCK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FURNISTOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FURNISTOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FURNISTOCK_REDIS_URL"`
	Address      string        `envconfig:"FURNISTOCK_REDIS_ADDR"`
	Password     string        `envconfig:"FURNISTOCK_REDIS_PASSWORD"`
	DB           int           `envconfig:"FURNISTOCK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FURNISTOCK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FURNISTOCK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FURNISTOCK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FURNISTOCK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FURNISTOCK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FURNISTOCK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FURNISTOCK_JWT_ISSUER" default:"furnistock"`
	ExpirationMinutes int    `envconfig:"FURNISTOCK_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FURNISTOCK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FURNISTOCK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FURNISTOCK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FURNISTOCK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FURNISTOCK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FURNISTOCK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FURNISTOCK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FURNISTOCK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FURNISTOCK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FURNISTOCK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FURNISTOCK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FURNISTOCK_AUTO_MIGRATE" default:"false"`
}

type BarcodeConfig struct {
	ImageDir     string `envconfig:"FURNISTOCK_BARCODE_IMAGE_DIR" default:"public/barcodes"`
	PublicPrefix string `envconfig:"FURNISTOCK_BARCODE_PUBLIC_PREFIX" default:"/barcodes"`
	UploadDir    string `envconfig:"FURNISTOCK_BARCODE_UPLOAD_DIR" default:"uploads"`
	ScannerBin   string `envconfig:"FURNISTOCK_BARCODE_SCANNER_BIN" default:"zbarimg"`
	MaxUploadMB  int    `envconfig:"FURNISTOCK_BARCODE_MAX_UPLOAD_MB" default:"10"`
}

type AuditConfig struct {
	QueueSize int `envconfig:"FURNISTOCK_AUDIT_QUEUE_SIZE" default:"256"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if required[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
