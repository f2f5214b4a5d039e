package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/GustavoCaso/spendwatch/internal/logger"
	"github.com/GustavoCaso/spendwatch/internal/validate"
)

type Config struct {
	Logger  logger.Config `toml:"logger"`
	Storage StorageConfig `toml:"storage"`
	Budget  BudgetConfig  `toml:"budget"`
	Notify  NotifyConfig  `toml:"notify"`
	Server  ServerConfig  `toml:"server"`

	// Categories maps a category name to the pattern its notes match when an
	// expense is recorded without a category. Entries replace the built-in
	// pattern of that category.
	Categories map[string]string `toml:"categories"`
}

type StorageConfig struct {
	Backend string       `toml:"backend" validate:"oneof=memory json sqlite dynamo"`
	Path    string       `toml:"path"`
	SQLite  DBConfig     `toml:"sqlite"`
	Dynamo  DynamoConfig `toml:"dynamo"`
}

// DBConfig holds the sqlite connection settings.
type DBConfig struct {
	Source          string        `toml:"source"`
	MaxOpenConns    int           `toml:"max_open_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	JournalMode     string        `toml:"journal_mode" validate:"omitempty,oneof=DELETE TRUNCATE PERSIST MEMORY WAL OFF"`
	BusyTimeout     int           `toml:"busy_timeout" validate:"gte=0"`
}

type DynamoConfig struct {
	Region          string `toml:"region"`
	Table           string `toml:"table"`
	Endpoint        string `toml:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

type BudgetConfig struct {
	WarningThreshold int     `toml:"warning_threshold" validate:"min=1,max=100"`
	Currency         string  `toml:"currency" validate:"required"`
	RecentExpenses   int     `toml:"recent_expenses" validate:"gte=0"`
	DefaultLimit     float64 `toml:"default_limit" validate:"gt=0"`
}

type NotifyConfig struct {
	Channel string     `toml:"channel" validate:"oneof=console log amqp sns none"`
	AMQP    AMQPConfig `toml:"amqp"`
	SNS     SNSConfig  `toml:"sns"`
}

type AMQPConfig struct {
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
	Queue    string `toml:"queue"`
}

type SNSConfig struct {
	Region   string `toml:"region"`
	TopicARN string `toml:"topic_arn"`
	Endpoint string `toml:"endpoint" validate:"omitempty,url"`
}

type ServerConfig struct {
	Address        string   `toml:"address" validate:"required"`
	AllowedOrigins []string `toml:"allowed_origins"`
	RateLimit      float64  `toml:"rate_limit" validate:"gte=0"`
	Burst          int      `toml:"burst" validate:"gte=0"`
}

const (
	DefaultFile = "spendwatch.toml"

	defaultLogLevel         = logger.LevelInfo
	defaultLogFormat        = logger.FormatText
	defaultLogOutput        = "stderr"
	defaultBackend          = "json"
	defaultStoragePath      = "spendwatch-data"
	defaultSQLiteFile       = "spendwatch.db"
	defaultJournalMode      = "WAL"
	defaultBusyTimeout      = 5000
	defaultMaxOpenConns     = 1
	defaultDynamoTable      = "spendwatch"
	defaultWarningThreshold = 80
	defaultCurrency         = "RM"
	defaultRecentExpenses   = 5
	defaultBudgetLimit      = 1000
	defaultChannel          = "console"
	defaultAMQPExchange     = "spendwatch"
	defaultAMQPQueue        = "notifications"
	defaultServerAddress    = ":8080"
	defaultRateLimit        = 10
	defaultBurst            = 20
)

// Default returns the configuration used when no file or environment
// variable overrides a value.
func Default() *Config {
	return &Config{
		Logger: logger.Config{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			Output: defaultLogOutput,
		},
		Storage: StorageConfig{
			Backend: defaultBackend,
			Path:    defaultStoragePath,
			SQLite: DBConfig{
				MaxOpenConns: defaultMaxOpenConns,
				JournalMode:  defaultJournalMode,
				BusyTimeout:  defaultBusyTimeout,
			},
			Dynamo: DynamoConfig{Table: defaultDynamoTable},
		},
		Budget: BudgetConfig{
			WarningThreshold: defaultWarningThreshold,
			Currency:         defaultCurrency,
			RecentExpenses:   defaultRecentExpenses,
			DefaultLimit:     defaultBudgetLimit,
		},
		Notify: NotifyConfig{
			Channel: defaultChannel,
			AMQP: AMQPConfig{
				Exchange: defaultAMQPExchange,
				Queue:    defaultAMQPQueue,
			},
		},
		Server: ServerConfig{
			Address:   defaultServerAddress,
			RateLimit: defaultRateLimit,
			Burst:     defaultBurst,
		},
	}
}

// Parse loads the TOML file at path on top of the defaults, then applies the
// variables from a .env file and the SPENDWATCH_* environment. A missing file
// is not an error.
func Parse(path string) (*Config, error) {
	conf := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, conf); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := conf.parseEnv(); err != nil {
		return nil, err
	}

	if conf.Storage.SQLite.Source == "" {
		conf.Storage.SQLite.Source = filepath.Join(conf.Storage.Path, defaultSQLiteFile)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// Validate checks field rules and the settings each selected backend or
// channel needs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	var errs []error
	if c.Storage.Backend == "dynamo" && c.Storage.Dynamo.Table == "" {
		errs = append(errs, errors.New("storage.dynamo.table is required for the dynamo backend"))
	}
	if (c.Storage.Backend == "json" || c.Storage.Backend == "sqlite") && c.Storage.Path == "" {
		errs = append(errs, fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend))
	}
	if c.Notify.Channel == "amqp" && c.Notify.AMQP.URL == "" {
		errs = append(errs, errors.New("notify.amqp.url is required for the amqp channel"))
	}
	if c.Notify.Channel == "sns" && c.Notify.SNS.TopicARN == "" {
		errs = append(errs, errors.New("notify.sns.topic_arn is required for the sns channel"))
	}
	for name, pattern := range c.Categories {
		if _, err := regexp.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("categories.%s: %w", name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) parseEnv() error {
	setString("SPENDWATCH_LOG_LEVEL", (*string)(&c.Logger.Level))
	setString("SPENDWATCH_LOG_FORMAT", (*string)(&c.Logger.Format))
	setString("SPENDWATCH_LOG_OUTPUT", &c.Logger.Output)

	setString("SPENDWATCH_STORAGE_BACKEND", &c.Storage.Backend)
	setString("SPENDWATCH_STORAGE_PATH", &c.Storage.Path)
	setString("SPENDWATCH_DB", &c.Storage.SQLite.Source)
	setString("SPENDWATCH_DYNAMO_REGION", &c.Storage.Dynamo.Region)
	setString("SPENDWATCH_DYNAMO_TABLE", &c.Storage.Dynamo.Table)
	setString("SPENDWATCH_DYNAMO_ENDPOINT", &c.Storage.Dynamo.Endpoint)

	setString("SPENDWATCH_CURRENCY", &c.Budget.Currency)

	setString("SPENDWATCH_NOTIFY_CHANNEL", &c.Notify.Channel)
	setString("SPENDWATCH_AMQP_URL", &c.Notify.AMQP.URL)
	setString("SPENDWATCH_AMQP_EXCHANGE", &c.Notify.AMQP.Exchange)
	setString("SPENDWATCH_AMQP_QUEUE", &c.Notify.AMQP.Queue)
	setString("SPENDWATCH_SNS_REGION", &c.Notify.SNS.Region)
	setString("SPENDWATCH_SNS_TOPIC_ARN", &c.Notify.SNS.TopicARN)
	setString("SPENDWATCH_SNS_ENDPOINT", &c.Notify.SNS.Endpoint)

	setString("SPENDWATCH_SERVER_ADDRESS", &c.Server.Address)
	if origins := os.Getenv("SPENDWATCH_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	var errs []error
	errs = append(errs, setInt("SPENDWATCH_WARNING_THRESHOLD", &c.Budget.WarningThreshold))
	errs = append(errs, setInt("SPENDWATCH_RECENT_EXPENSES", &c.Budget.RecentExpenses))
	errs = append(errs, setInt("SPENDWATCH_RATE_BURST", &c.Server.Burst))
	if v := os.Getenv("SPENDWATCH_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("SPENDWATCH_RATE_LIMIT: %w", err))
		} else {
			c.Server.RateLimit = f
		}
	}
	return errors.Join(errs...)
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
