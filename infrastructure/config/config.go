package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Cors      CorsConfig
	Logger    LoggerConfig
	Jaeger    JaegerConfig
	Sentry    SentryConfig
	Admin     AdminConfig
	Retention RetentionConfig
	Profiler  ProfilerConfig
}

type ServerConfig struct {
	InternalPort string
	ExternalPort string
	RunMode      string
	Domain       string
}

type LoggerConfig struct {
	FilePath   string
	Encoding   string
	Level      string
	Logger     string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DbName          string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

type RedisConfig struct {
	Enabled            bool
	Host               string
	Port               string
	Password           string
	Db                 string
	DialTimeout        time.Duration
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleCheckFrequency time.Duration
	PoolSize           int
	PoolTimeout        time.Duration
}

type RabbitMQConfig struct {
	Enabled            bool
	URL                string
	Exchange           string
	Queue              string
	DeadLetterExchange string
	DeadLetterQueue    string
}

type CorsConfig struct {
	AllowOrigins string
}

type JaegerConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
}

type SentryConfig struct {
	Dsn            string
	Debug          bool
	SendDefaultPII bool
}

// AdminConfig carries the back-office branding and the API token the
// admin endpoints are guarded with.
type AdminConfig struct {
	SiteHeader string
	SiteTitle  string
	IndexTitle string
	APIToken   string
}

type RetentionConfig struct {
	Enabled  bool
	Interval time.Duration
	MaxAge   time.Duration
}

type ProfilerConfig struct {
	Enabled bool
	Dir     string
}

func GetConfig() *Config {
	cfgPath := getConfigPath(os.Getenv("APP_ENV"))
	v, err := LoadConfig(cfgPath, "yml")
	if err != nil {
		log.Fatalf("Error in load config %v", err)
	}

	cfg, err := ParseConfig(v)
	if err != nil {
		log.Fatalf("Error in parse config %v", err)
	}

	if envPort := os.Getenv("PORT"); envPort != "" {
		cfg.Server.ExternalPort = envPort
		log.Printf("Set external port from environment -> %s", cfg.Server.ExternalPort)
	} else {
		log.Printf("Using external port from config -> %s", cfg.Server.ExternalPort)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	err := v.Unmarshal(&cfg)
	if err != nil {
		log.Printf("Unable to parse config: %v", err)
		return nil, err
	}
	return &cfg, nil
}

func LoadConfig(filename string, fileType string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType(fileType)
	v.SetConfigName(filename)

	v.AddConfigPath(".")                        // Current directory
	v.AddConfigPath("./config")                 // ./config
	v.AddConfigPath("./infrastructure/config")  // ./infrastructure/config
	v.AddConfigPath("../config")                // ../config
	v.AddConfigPath("../infrastructure/config") // ../infrastructure/config (from cmd)
	v.AddConfigPath("../../config")             // ../../config

	if wd, err := os.Getwd(); err == nil {
		v.AddConfigPath(filepath.Join(wd, "config"))
		v.AddConfigPath(filepath.Join(wd, "infrastructure", "config"))
	}

	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		log.Printf("Unable to read config: %v", err)
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}

	log.Printf("Using config file: %s", v.ConfigFileUsed())
	return v, nil
}

func getConfigPath(env string) string {
	switch env {
	case "docker":
		return "config-docker"
	case "production":
		return "config-production"
	default:
		return "config-development"
	}
}

func (c *Config) setDefaults() {
	if c.Admin.SiteHeader == "" {
		c.Admin.SiteHeader = "Visper Administration"
	}
	if c.Admin.SiteTitle == "" {
		c.Admin.SiteTitle = "Visper Admin"
	}
	if c.Admin.IndexTitle == "" {
		c.Admin.IndexTitle = "Administration"
	}

	if c.Postgres.QueryTimeout <= 0 {
		c.Postgres.QueryTimeout = 5 * time.Second
	}

	if c.Retention.Interval <= 0 {
		c.Retention.Interval = time.Hour
	}
	if c.Retention.MaxAge <= 0 {
		c.Retention.MaxAge = 30 * 24 * time.Hour
	}

	if c.Profiler.Dir == "" {
		c.Profiler.Dir = "profiles"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.InternalPort == "" {
		return errors.New("server.internalPort is required")
	}
	if c.Server.ExternalPort == "" {
		return errors.New("server.externalPort is required")
	}
	if c.Server.Domain == "" {
		return errors.New("server.domain is required")
	}

	if c.Postgres.Host == "" {
		return errors.New("postgres.host is required")
	}
	if c.Postgres.Port == "" {
		return errors.New("postgres.port is required")
	}
	if c.Postgres.DbName == "" {
		return errors.New("postgres.dbName is required")
	}

	if c.Redis.Enabled {
		if c.Redis.Host == "" {
			return errors.New("redis.host is required")
		}
		if c.Redis.Port == "" {
			return errors.New("redis.port is required")
		}
	}

	if c.RabbitMQ.Enabled {
		if c.RabbitMQ.URL == "" {
			return errors.New("rabbitMQ.url is required")
		}
		if c.RabbitMQ.Exchange == "" {
			return errors.New("rabbitMQ.exchange is required")
		}
		if c.RabbitMQ.Queue == "" {
			return errors.New("rabbitMQ.queue is required")
		}
	}

	if c.IsProduction() && c.Admin.APIToken == "" {
		return errors.New("admin.apiToken is required in production")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.RunMode == "debug" || c.Server.RunMode == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.RunMode == "release" || c.Server.RunMode == "production"
}

func (c *Config) GetPostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.DbName,
		c.Postgres.SSLMode,
	)
}

func (c *Config) GetRedisAddress() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func (c *Config) GetServerAddress() string {
	return fmt.Sprintf(":%s", c.Server.InternalPort)
}
