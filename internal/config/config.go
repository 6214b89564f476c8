package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores settings of the API and worker processes.
type Config struct {
	Port      int
	LogLevel  string
	DB        DB
	Dispatch  Dispatch
	Maps      Maps
	Kafka     Kafka
	Redis     Redis
	RabbitMQ  RabbitMQ
	Jobs      Jobs
	RateLimit RateLimit
	Debug     Debug
}

// DB stores Postgres connection settings.
type DB struct {
	Host        string
	Port        string
	User        string
	Pass        string
	Name        string
	AutoMigrate bool
}

// DSN returns the connection string for pgx.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		d.User, d.Pass, net.JoinHostPort(d.Host, d.Port), d.Name)
}

// Dispatch stores dispatch flow tunables.
type Dispatch struct {
	ResponseWindow       time.Duration
	PollInterval         time.Duration
	OperationTimeout     time.Duration
	DefaultTravelMinutes int
}

// Maps stores Google Maps settings. An empty key disables the Directions estimator.
type Maps struct {
	APIKey string
}

// Kafka stores order event consumer settings.
type Kafka struct {
	Brokers     []string
	GroupID     string
	OrdersTopic string
}

// Enabled reports whether the consumer is configured.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0 && k.GroupID != "" && k.OrdersTopic != ""
}

// Redis stores attempt signal bridge settings.
type Redis struct {
	Addr           string
	AttemptChannel string
}

// Enabled reports whether the bridge is configured.
func (r Redis) Enabled() bool { return r.Addr != "" }

// RabbitMQ stores outbound notification queue settings.
type RabbitMQ struct {
	URL         string
	NotifyQueue string
}

// Enabled reports whether notifications go to the broker.
func (r RabbitMQ) Enabled() bool { return r.URL != "" }

// Jobs stores cron specs of background jobs.
type Jobs struct {
	MoveReminderSpec   string
	ContractExpirySpec string
}

// RateLimit stores token bucket settings of the public API.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Debug stores the worker debug listener settings.
type Debug struct {
	Port int
	User string
	Pass string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      DefaultPort(),
		LogLevel:  "info",
		DB:        DefaultDB(),
		Dispatch:  DefaultDispatch(),
		Redis:     Redis{AttemptChannel: defaultAttemptChannel},
		RabbitMQ:  RabbitMQ{NotifyQueue: defaultNotifyQueue},
		Jobs:      DefaultJobs(),
		RateLimit: DefaultRateLimit(),
		Debug:     Debug{Port: defaultDebugPort},
	}

	if err := loadEnv(cfg); err != nil {
		return nil, err
	}

	fs := pflag.CommandLine
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&cfg.DB.AutoMigrate, "auto-migrate", cfg.DB.AutoMigrate, "apply the embedded schema at startup")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnv(cfg *Config) error {
	var err error
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return err
	}
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)

	cfg.DB.Host = envString("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = envString("POSTGRES_PORT", cfg.DB.Port)
	if _, err = strconv.Atoi(cfg.DB.Port); err != nil {
		return fmt.Errorf("invalid POSTGRES_PORT %q: %w", cfg.DB.Port, err)
	}
	cfg.DB.User = envString("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = envString("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = envString("POSTGRES_DB", cfg.DB.Name)
	if cfg.DB.AutoMigrate, err = envBool("POSTGRES_AUTO_MIGRATE", cfg.DB.AutoMigrate); err != nil {
		return err
	}

	d := &cfg.Dispatch
	if d.ResponseWindow, err = envDuration("DISPATCH_RESPONSE_WINDOW", d.ResponseWindow); err != nil {
		return err
	}
	if d.PollInterval, err = envDuration("DISPATCH_POLL_INTERVAL", d.PollInterval); err != nil {
		return err
	}
	if d.OperationTimeout, err = envDuration("DISPATCH_OPERATION_TIMEOUT", d.OperationTimeout); err != nil {
		return err
	}
	if d.DefaultTravelMinutes, err = envInt("DISPATCH_DEFAULT_TRAVEL_MINUTES", d.DefaultTravelMinutes); err != nil {
		return err
	}

	cfg.Maps.APIKey = envString("GOOGLE_MAPS_API_KEY", cfg.Maps.APIKey)

	cfg.Kafka.Brokers = envList("KAFKA_BROKERS")
	cfg.Kafka.GroupID = envString("KAFKA_GROUP_ID", cfg.Kafka.GroupID)
	cfg.Kafka.OrdersTopic = envString("KAFKA_ORDERS_TOPIC", cfg.Kafka.OrdersTopic)

	cfg.Redis.Addr = envString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.AttemptChannel = envString("REDIS_ATTEMPT_CHANNEL", cfg.Redis.AttemptChannel)

	cfg.RabbitMQ.URL = envString("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.NotifyQueue = envString("RABBITMQ_NOTIFY_QUEUE", cfg.RabbitMQ.NotifyQueue)

	cfg.Jobs.MoveReminderSpec = envString("JOBS_MOVE_REMINDER_SPEC", cfg.Jobs.MoveReminderSpec)
	cfg.Jobs.ContractExpirySpec = envString("JOBS_CONTRACT_EXPIRY_SPEC", cfg.Jobs.ContractExpirySpec)

	rl := &cfg.RateLimit
	if rl.Enabled, err = envBool("RATE_LIMIT_ENABLED", rl.Enabled); err != nil {
		return err
	}
	if rl.Rate, err = envFloat("RATE_LIMIT_RATE", rl.Rate); err != nil {
		return err
	}
	if rl.Burst, err = envInt("RATE_LIMIT_BURST", rl.Burst); err != nil {
		return err
	}
	if rl.TTL, err = envDuration("RATE_LIMIT_TTL", rl.TTL); err != nil {
		return err
	}
	if rl.MaxBuckets, err = envInt("RATE_LIMIT_MAX_BUCKETS", rl.MaxBuckets); err != nil {
		return err
	}

	if cfg.Debug.Port, err = envInt("DEBUG_PORT", cfg.Debug.Port); err != nil {
		return err
	}
	cfg.Debug.User = envString("DEBUG_USER", cfg.Debug.User)
	cfg.Debug.Pass = envString("DEBUG_PASS", cfg.Debug.Pass)
	return nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Debug.Port <= 0 || c.Debug.Port > 65535 {
		return fmt.Errorf("invalid debug port: %d", c.Debug.Port)
	}
	if c.Dispatch.ResponseWindow <= 0 {
		return fmt.Errorf("invalid response window: %s", c.Dispatch.ResponseWindow)
	}
	if c.Dispatch.PollInterval < minPollInterval {
		return fmt.Errorf("poll interval %s is below %s", c.Dispatch.PollInterval, minPollInterval)
	}
	if c.Dispatch.OperationTimeout <= 0 {
		return fmt.Errorf("invalid operation timeout: %s", c.Dispatch.OperationTimeout)
	}
	if c.Dispatch.DefaultTravelMinutes < 0 {
		return fmt.Errorf("invalid default travel minutes: %d", c.Dispatch.DefaultTravelMinutes)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid rate limit: rate=%v burst=%d", c.RateLimit.Rate, c.RateLimit.Burst)
	}
	return nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
