package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string
	Port              int
	ReadTimeoutSec    int
	WriteTimeoutSec   int
	IdleTimeoutSec    int
	RequestTimeoutSec int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Table 表格会话：数据来源、后端实现与模拟延迟
type Table struct {
	PageSize            int
	Source              string // seed / db
	Backend             string // simulated / db
	SeedCount           int
	CacheTTLSec         int // >0 时通过 redis 缓存初始列表
	SaveLatencyMs       int
	DeleteLatencyMs     int
	BulkDeleteLatencyMs int
}

func (t Table) SaveLatency() time.Duration {
	return time.Duration(t.SaveLatencyMs) * time.Millisecond
}

func (t Table) DeleteLatency() time.Duration {
	return time.Duration(t.DeleteLatencyMs) * time.Millisecond
}

func (t Table) BulkDeleteLatency() time.Duration {
	return time.Duration(t.BulkDeleteLatencyMs) * time.Millisecond
}

type Config struct {
	App   App
	Log   Log
	DB    DB
	Redis Redis `mapstructure:"redis"`
	Table Table
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "user-table")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.http.requestTimeoutSec", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 5)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.logLevel", "warn")
	v.SetDefault("table.pageSize", 25)
	v.SetDefault("table.source", "seed")
	v.SetDefault("table.backend", "simulated")
	v.SetDefault("table.seedCount", 200)
	v.SetDefault("table.saveLatencyMs", 500)
	v.SetDefault("table.deleteLatencyMs", 300)
	v.SetDefault("table.bulkDeleteLatencyMs", 500)
}

// Load 读取 YAML 配置，APP_ 前缀的环境变量可覆盖（如 APP_TABLE_PAGESIZE）
func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return c
}

func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch c.Table.Source {
	case "seed", "db":
	default:
		return fmt.Errorf("table.source: unknown value %q", c.Table.Source)
	}
	switch c.Table.Backend {
	case "simulated", "db":
	default:
		return fmt.Errorf("table.backend: unknown value %q", c.Table.Backend)
	}
	if c.Table.PageSize <= 0 {
		return fmt.Errorf("table.pageSize must be positive, got %d", c.Table.PageSize)
	}
	return nil
}

// NeedsDB 数据来源或后端任一使用数据库
func (c *Config) NeedsDB() bool { return c.Table.Source == "db" || c.Table.Backend == "db" }
