package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
search:
  departure_city: Charlotte
sheety:
  username: abc123
  project: flightDeals
kiwi:
  api_key: ${TEST_KIWI_KEY}
notifications:
  from: "+18440000000"
  to: "+15100000000"
  twilio:
    account_sid: AC123
    auth_token: secret
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	t.Setenv("TEST_KIWI_KEY", "kiwi-key")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "Charlotte", cfg.Search.DepartureCity)
	assert.Equal(t, 11, cfg.Search.MinStayNights)
	assert.Equal(t, 12, cfg.Search.MaxStayNights)
	assert.Equal(t, "USD", cfg.Search.Currency)
	assert.Equal(t, 180, cfg.Search.HorizonDays)
	assert.Equal(t, StoreBackendSheety, cfg.Store.Backend)
	assert.Equal(t, "https://api.sheety.co/abc123/flightDeals/prices", cfg.Sheety.Endpoint())
	assert.Equal(t, "price", cfg.Sheety.RecordKey)
	assert.Equal(t, "kiwi-key", cfg.Kiwi.APIKey)
	assert.Equal(t, ProviderTwilio, cfg.Notifications.Provider)
	assert.Equal(t, 30*time.Second, GetDuration(cfg.HTTP.Timeout))
	assert.Equal(t, "flight-deals:run-lock", cfg.RunLock.Key)
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv("TEST_KIWI_KEY", "kiwi-key")
	t.Setenv("SEARCH_CURRENCY", "EUR")
	t.Setenv("SEARCH_MAX_STAY_NIGHTS", "14")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "EUR", cfg.Search.Currency)
	assert.Equal(t, 14, cfg.Search.MaxStayNights)
}

func TestLoadFromFile_SecretFallbacks(t *testing.T) {
	content := `
search:
  departure_code: CLT
sheety:
  username: abc123
  project: flightDeals
notifications:
  provider: sns
`
	t.Setenv("KIWI_API_KEY", "from-env")
	t.Setenv("ALERT_FROM", "+18440000000")
	t.Setenv("ALERT_TO", "+15100000000")

	cfg, err := LoadFromFile(writeConfig(t, content))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Kiwi.APIKey)
	assert.Equal(t, "+18440000000", cfg.Notifications.From)
	assert.Equal(t, "+15100000000", cfg.Notifications.To)
	assert.Equal(t, "us-east-1", cfg.Notifications.AWS.Region)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func validConfig() *Config {
	cfg := &Config{}
	cfg.Search = SearchConfig{DepartureCity: "Charlotte", MinStayNights: 11, MaxStayNights: 12, Currency: "USD", HorizonDays: 180}
	cfg.Store.Backend = StoreBackendSheety
	cfg.Sheety = SheetyConfig{Username: "u", Project: "p", Sheet: "prices"}
	cfg.Kiwi.APIKey = "k"
	cfg.Notifications.Provider = ProviderTwilio
	cfg.Notifications.From = "+1"
	cfg.Notifications.To = "+2"
	cfg.Notifications.Twilio.AccountSID = "AC"
	cfg.Notifications.Twilio.AuthToken = "t"
	cfg.RunLock.TTL = 1000
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "no departure", mutate: func(c *Config) { c.Search.DepartureCity = "" }, wantErr: "departure"},
		{name: "inverted stay window", mutate: func(c *Config) { c.Search.MinStayNights = 13 }, wantErr: "stay window"},
		{name: "bad currency", mutate: func(c *Config) { c.Search.Currency = "DOLLAR" }, wantErr: "currency"},
		{name: "unknown store", mutate: func(c *Config) { c.Store.Backend = "excel" }, wantErr: "store.backend"},
		{name: "postgres without host", mutate: func(c *Config) { c.Store.Backend = StoreBackendPostgres }, wantErr: "postgres"},
		{name: "no kiwi key", mutate: func(c *Config) { c.Kiwi.APIKey = "" }, wantErr: "kiwi.api_key"},
		{name: "no recipient", mutate: func(c *Config) { c.Notifications.To = "" }, wantErr: "notifications.from"},
		{name: "twilio without token", mutate: func(c *Config) { c.Notifications.Twilio.AuthToken = "" }, wantErr: "twilio"},
		{name: "unknown provider", mutate: func(c *Config) { c.Notifications.Provider = "pigeon" }, wantErr: "provider"},
		{name: "redis without ttl", mutate: func(c *Config) {
			c.Database.Redis.Address = "localhost:6379"
			c.RunLock.TTL = 0
		}, wantErr: "run_lock.ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "deals", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=deals sslmode=disable", p.GetDSN())
}

func TestLoadFromFile_ShippedConfig(t *testing.T) {
	t.Setenv("SHEETY_USERNAME", "abc123")
	t.Setenv("KIWI_API_KEY", "kiwi")
	t.Setenv("ALERT_FROM", "+18440000000")
	t.Setenv("ALERT_TO", "+15100000000")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC1")
	t.Setenv("TWILIO_AUTH_TOKEN", "tok")

	cfg, err := LoadFromFile(filepath.Join("..", "..", "..", "configs", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Charlotte", cfg.Search.DepartureCity)
	assert.Equal(t, "https://api.sheety.co/abc123/flightDeals/prices", cfg.Sheety.Endpoint())
	assert.Equal(t, StoreBackendSheety, cfg.Store.Backend)
	assert.Equal(t, "AC1", cfg.Notifications.Twilio.AccountSID)
	assert.Equal(t, 30*time.Minute, GetDuration(cfg.RunLock.TTL))
}

const storeOnlyYAML = `
sheety:
  username: abc123
  project: flightDeals
`

func TestLoadStoreFromFile_NeedsOnlyStoreSettings(t *testing.T) {
	t.Setenv("KIWI_API_KEY", "")
	path := writeConfig(t, storeOnlyYAML)

	cfg, err := LoadStoreFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, StoreBackendSheety, cfg.Store.Backend)
	assert.Equal(t, "abc123", cfg.Sheety.Username)
	assert.Empty(t, cfg.Kiwi.APIKey)

	_, err = LoadFromFile(path)
	require.Error(t, err)
}

func TestValidateStore(t *testing.T) {
	cfg := &Config{}
	cfg.Store.Backend = StoreBackendPostgres
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Postgres.Database = "flight_deals"
	assert.NoError(t, ValidateStore(cfg))

	cfg.Database.Postgres.Host = ""
	assert.ErrorContains(t, ValidateStore(cfg), "database.postgres.host")

	cfg.Store.Backend = "excel"
	assert.ErrorContains(t, ValidateStore(cfg), "store.backend")
}
