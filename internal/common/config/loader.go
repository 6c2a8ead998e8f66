package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges configs/config.<APP_ENVIRONMENT>.yaml
// when present and applies environment overrides.
func Load() (*Config, error) {
	return load(Validate)
}

// LoadStore is Load for tools that only touch the destination store; it skips
// the search, flight API and notification checks.
func LoadStore() (*Config, error) {
	return load(ValidateStore)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	return loadFile(path, Validate)
}

func LoadStoreFromFile(path string) (*Config, error) {
	return loadFile(path, ValidateStore)
}

func load(validate func(*Config) error) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v, validate)
}

func loadFile(path string, validate func(*Config) error) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v, validate)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finish(v *viper.Viper, validate func(*Config) error) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "flight-deals")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("search.departure_city", "")
	v.SetDefault("search.departure_code", "")
	v.SetDefault("search.min_stay_nights", 11)
	v.SetDefault("search.max_stay_nights", 12)
	v.SetDefault("search.currency", "USD")
	v.SetDefault("search.horizon_days", 180)

	v.SetDefault("store.backend", StoreBackendSheety)

	v.SetDefault("sheety.base_url", "https://api.sheety.co")
	v.SetDefault("sheety.username", "")
	v.SetDefault("sheety.project", "")
	v.SetDefault("sheety.sheet", "prices")
	v.SetDefault("sheety.record_key", "price")
	v.SetDefault("sheety.token", "")

	v.SetDefault("kiwi.base_url", "https://api.tequila.kiwi.com")
	v.SetDefault("kiwi.api_key", "")
	v.SetDefault("kiwi.search_path", "/v2/search")

	v.SetDefault("notifications.provider", ProviderTwilio)
	v.SetDefault("notifications.from", "")
	v.SetDefault("notifications.to", "")
	v.SetDefault("notifications.twilio.base_url", "https://api.twilio.com")
	v.SetDefault("notifications.twilio.account_sid", "")
	v.SetDefault("notifications.twilio.auth_token", "")
	v.SetDefault("notifications.aws.region", "us-east-1")
	v.SetDefault("notifications.aws.sms_type", "Transactional")
	v.SetDefault("notifications.aws.ses_subject", "Flight deal alert")

	v.SetDefault("database.postgres.host", "")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "")
	v.SetDefault("database.postgres.user", "")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.max_connections", 5)
	v.SetDefault("database.postgres.max_idle", 2)
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.redis.address", "")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)

	v.SetDefault("run_lock.key", "flight-deals:run-lock")
	v.SetDefault("run_lock.ttl", 30*60*1000)

	v.SetDefault("metrics.listen_address", ":9090")
	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job_name", "flight_deals")

	v.SetDefault("camunda.broker_address", "")
	v.SetDefault("camunda.plaintext", true)
	v.SetDefault("camunda.job_timeout", 30*60*1000)

	v.SetDefault("http.timeout", 30000)
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "$") {
			continue
		}
		if expanded := os.ExpandEnv(strVal); expanded != strVal {
			v.Set(key, expanded)
		}
	}
}

// overrideEmptyConfig fills secrets from their conventional variable names.
func overrideEmptyConfig(cfg *Config) {
	fill := func(dst *string, envKey string) {
		if *dst != "" {
			return
		}
		if val := os.Getenv(envKey); val != "" {
			*dst = val
		}
	}

	fill(&cfg.Sheety.Token, "SHEETY_TOKEN")
	fill(&cfg.Sheety.Username, "SHEETY_USERNAME")
	fill(&cfg.Kiwi.APIKey, "KIWI_API_KEY")
	fill(&cfg.Notifications.Twilio.AccountSID, "TWILIO_ACCOUNT_SID")
	fill(&cfg.Notifications.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
	fill(&cfg.Notifications.From, "ALERT_FROM")
	fill(&cfg.Notifications.To, "ALERT_TO")
	fill(&cfg.Database.Postgres.User, "DB_USER")
	fill(&cfg.Database.Postgres.Password, "DB_PASSWORD")
}

// Validate checks the fields every run depends on.
func Validate(cfg *Config) error {
	s := cfg.Search
	if s.DepartureCity == "" && s.DepartureCode == "" {
		return fmt.Errorf("search.departure_city or search.departure_code is required")
	}
	if s.MinStayNights < 0 || s.MaxStayNights < s.MinStayNights {
		return fmt.Errorf("search stay window %d-%d is invalid", s.MinStayNights, s.MaxStayNights)
	}
	if len(s.Currency) != 3 {
		return fmt.Errorf("search.currency must be a 3-letter code, got %q", s.Currency)
	}
	if s.HorizonDays <= 0 {
		return fmt.Errorf("search.horizon_days must be positive")
	}

	if err := ValidateStore(cfg); err != nil {
		return err
	}

	if cfg.Kiwi.APIKey == "" {
		return fmt.Errorf("kiwi.api_key is required")
	}

	n := cfg.Notifications
	if n.From == "" || n.To == "" {
		return fmt.Errorf("notifications.from and notifications.to are required")
	}
	switch n.Provider {
	case ProviderTwilio:
		if n.Twilio.AccountSID == "" || n.Twilio.AuthToken == "" {
			return fmt.Errorf("notifications.twilio.account_sid and auth_token are required")
		}
	case ProviderSNS, ProviderSES:
		if n.AWS.Region == "" {
			return fmt.Errorf("notifications.aws.region is required")
		}
	default:
		return fmt.Errorf("notifications.provider %q is not supported", n.Provider)
	}

	if cfg.Database.Redis.Address != "" && cfg.RunLock.TTL <= 0 {
		return fmt.Errorf("run_lock.ttl must be positive")
	}
	return nil
}

// ValidateStore checks only the destination store backend.
func ValidateStore(cfg *Config) error {
	switch cfg.Store.Backend {
	case StoreBackendSheety:
		if cfg.Sheety.Username == "" || cfg.Sheety.Project == "" || cfg.Sheety.Sheet == "" {
			return fmt.Errorf("sheety.username, sheety.project and sheety.sheet are required")
		}
	case StoreBackendPostgres:
		if cfg.Database.Postgres.Host == "" || cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.host and database.postgres.database are required")
		}
	default:
		return fmt.Errorf("store.backend %q is not supported", cfg.Store.Backend)
	}
	return nil
}
