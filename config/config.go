package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/pkg/configparser"
	"github.com/Temutjin2k/fastlane/pkg/logger"
	"github.com/joho/godotenv"
)

// Flags
var (
	modeFlag        = flag.String("mode", "", "application mode: nav-service | simulate")
	destinationFlag = flag.String("destination", "", "simulate: catalog destination name")
	speedFlag       = flag.Int("speed", 0, "simulate: speed boost percentage (0-50)")
	intervalFlag    = flag.Duration("interval", 0, "simulate: tick interval, overrides DRIVE_TICK_INTERVAL")
	maxTicksFlag    = flag.Int("max-ticks", 0, "simulate: stop after this many ticks (0 = until arrival)")
)

var (
	ErrModeNotProvided = errors.New("mode flag not provided")
	ErrInvalidMode     = errors.New("invalid mode")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode types.ServiceMode

		HTTP     HTTPConfig
		Database DatabaseConfig
		RabbitMQ RabbitMQConfig
		Auth     Auth
		Drive    DriveConfig
		Catalog  CatalogConfig
		Log      LogConfig
		Simulate SimulateConfig
	}

	HTTPConfig struct {
		Host string `env:"HTTP_HOST" default:"0.0.0.0"`
		Port string `env:"HTTP_PORT" default:"8080"`
		// CORSOrigins is a comma separated list; empty allows any origin.
		CORSOrigins string `env:"HTTP_CORS_ORIGINS" default:""`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"fastlane_user"`
		Password string `env:"DATABASE_PASSWORD" default:"fastlane_pass"`
		Database string `env:"DATABASE_DATABASE" default:"fastlane_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	Auth struct {
		AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"12h"`
		JWTSecret      string        `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
	}

	DriveConfig struct {
		TickInterval  time.Duration `env:"DRIVE_TICK_INTERVAL" default:"1s"`
		StopOnArrival bool          `env:"DRIVE_STOP_ON_ARRIVAL" default:"true"`
		ProgressEvery int           `env:"DRIVE_PROGRESS_EVERY" default:"10"`
		PersistEvery  int           `env:"DRIVE_PERSIST_EVERY" default:"30"`
		// ArrivedRetention is how long an arrived drive stays readable before it is dropped.
		ArrivedRetention time.Duration `env:"DRIVE_ARRIVED_RETENTION" default:"5m"`
	}

	CatalogConfig struct {
		Driver types.CatalogDriver `env:"CATALOG_DRIVER" default:"memory"`
		Path   string              `env:"CATALOG_PATH" default:"fastlane.db"`
	}

	LogConfig struct {
		Level string `env:"LOG_LEVEL" default:"INFO"`
	}

	// SimulateConfig comes from flags only.
	SimulateConfig struct {
		Destination     string
		SpeedPercentage int
		MaxTicks        int
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c DatabaseConfig) GetMaxConns() int32                { return c.MaxConns }
func (c DatabaseConfig) GetMaxConnLifetime() time.Duration { return c.MaxConnLifetime }

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func (c HTTPConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func (c HTTPConfig) Origins() []string {
	var out []string
	for o := range strings.SplitSeq(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// NewConfig loads .env (optional), then the YAML file, then the environment and flags.
func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// a missing .env is fine
	_ = godotenv.Load()

	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseFlags(cfg *Config) error {
	if modeFlag == nil || *modeFlag == "" {
		return ErrModeNotProvided
	}

	cfg.Mode = types.ServiceMode(*modeFlag)
	cfg.Simulate = SimulateConfig{
		Destination:     *destinationFlag,
		SpeedPercentage: *speedFlag,
		MaxTicks:        *maxTicksFlag,
	}
	if *intervalFlag > 0 {
		cfg.Drive.TickInterval = *intervalFlag
	}

	return nil
}

func (c *Config) validate() error {
	switch c.Mode {
	case types.NavService, types.SimulateMode:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}

	if !logger.ValidateLogLevel(c.Log.Level) {
		return fmt.Errorf("invalid LOG_LEVEL %q", c.Log.Level)
	}

	switch c.Catalog.Driver {
	case types.CatalogMemory, types.CatalogSQLite:
	default:
		return fmt.Errorf("invalid CATALOG_DRIVER %q", c.Catalog.Driver)
	}

	if c.Drive.TickInterval <= 0 {
		return errors.New("DRIVE_TICK_INTERVAL must be positive")
	}
	if c.Drive.ProgressEvery < 0 || c.Drive.PersistEvery < 0 {
		return errors.New("DRIVE_PROGRESS_EVERY and DRIVE_PERSIST_EVERY must not be negative")
	}
	if c.Drive.ArrivedRetention <= 0 {
		return errors.New("DRIVE_ARRIVED_RETENTION must be positive")
	}

	if c.Mode == types.SimulateMode {
		if strings.TrimSpace(c.Simulate.Destination) == "" {
			return errors.New("simulate mode needs -destination")
		}
		if c.Simulate.SpeedPercentage < 0 || c.Simulate.SpeedPercentage > 50 {
			return fmt.Errorf("-speed: %w", types.ErrInvalidSpeedPercentage)
		}
	}
	return nil
}

// LoadDatabase reads only the database section. Used by tools that run without -mode.
func LoadDatabase(filepath string) (DatabaseConfig, error) {
	var db DatabaseConfig

	_ = godotenv.Load()

	if err := configparser.LoadAndParseYaml(filepath, &db); err != nil {
		return DatabaseConfig{}, fmt.Errorf("failed to load and parse config: %w", err)
	}
	return db, nil
}
