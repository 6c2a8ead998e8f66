package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct. It is loaded once at
// startup and passed explicitly to every component.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Search        SearchConfig       `mapstructure:"search"`
	Store         StoreConfig        `mapstructure:"store"`
	Sheety        SheetyConfig       `mapstructure:"sheety"`
	Kiwi          KiwiConfig         `mapstructure:"kiwi"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Database      DatabaseConfig     `mapstructure:"database"`
	RunLock       RunLockConfig      `mapstructure:"run_lock"`
	Metrics       MetricsConfig      `mapstructure:"metrics"`
	Camunda       CamundaConfig      `mapstructure:"camunda"`
	HTTP          HTTPConfig         `mapstructure:"http"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SearchConfig holds the fixed parameters of every price probe in a run.
type SearchConfig struct {
	DepartureCity string `mapstructure:"departure_city"`
	// DepartureCode skips resolving DepartureCity when set.
	DepartureCode string `mapstructure:"departure_code"`
	MinStayNights int    `mapstructure:"min_stay_nights"`
	MaxStayNights int    `mapstructure:"max_stay_nights"`
	Currency      string `mapstructure:"currency"`
	HorizonDays   int    `mapstructure:"horizon_days"`
}

// Store backends.
const (
	StoreBackendSheety   = "sheety"
	StoreBackendPostgres = "postgres"
)

type StoreConfig struct {
	Backend string `mapstructure:"backend"`
}

type SheetyConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Username  string `mapstructure:"username"`
	Project   string `mapstructure:"project"`
	Sheet     string `mapstructure:"sheet"`
	RecordKey string `mapstructure:"record_key"` // singular object key used by PUT/POST bodies
	Token     string `mapstructure:"token"`
}

// Endpoint returns the sheet collection URL.
func (s SheetyConfig) Endpoint() string {
	return fmt.Sprintf("%s/%s/%s/%s", s.BaseURL, s.Username, s.Project, s.Sheet)
}

type KiwiConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	SearchPath string `mapstructure:"search_path"`
}

// Notification providers.
const (
	ProviderTwilio = "twilio"
	ProviderSNS    = "sns"
	ProviderSES    = "ses"
)

type NotificationConfig struct {
	Provider string `mapstructure:"provider"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
	Twilio   struct {
		BaseURL    string `mapstructure:"base_url"`
		AccountSID string `mapstructure:"account_sid"`
		AuthToken  string `mapstructure:"auth_token"`
	} `mapstructure:"twilio"`
	AWS struct {
		Region     string `mapstructure:"region"`
		SMSType    string `mapstructure:"sms_type"`
		SESSubject string `mapstructure:"ses_subject"`
	} `mapstructure:"aws"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RunLockConfig guards against overlapping scheduled runs. The lock is only
// taken when database.redis.address is set.
type RunLockConfig struct {
	Key string `mapstructure:"key"`
	TTL int    `mapstructure:"ttl"` // milliseconds
}

type MetricsConfig struct {
	ListenAddress  string `mapstructure:"listen_address"`
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	JobName        string `mapstructure:"job_name"`
}

type CamundaConfig struct {
	BrokerAddress string `mapstructure:"broker_address"`
	Plaintext     bool   `mapstructure:"plaintext"`
	JobTimeout    int    `mapstructure:"job_timeout"` // milliseconds
}

type HTTPConfig struct {
	Timeout int `mapstructure:"timeout"` // milliseconds
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
