package cmd

import (
	"log/slog"
	"testing"
	"time"

	"reconciler/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func validEnv() map[string]string {
	return map[string]string{
		"DB_HOST":         "db.internal",
		"DB_USER":         "shop",
		"DB_PASSWORD":     "secret",
		"DB_NAME":         "eshop",
		"ACS_APIURL":      "https://webservices.acscourier.net/ACSRestServices/api/ACSAutoRest",
		"ACS_COMPANYID":   "demo",
		"ACS_COMPANYPASS": "demo-pass",
		"ACS_USERNAME":    "user",
		"ACS_PASSWORD":    "user-pass",
		"ACS_APIKEY":      "key",
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(envOf(validEnv()))

	require.NoError(t, err)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 15*time.Second, cfg.ProviderTimeout)
	assert.Zero(t, cfg.RunTimeout)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Nil(t, cfg.SettlementDate)
	assert.True(t, cfg.ACS.Enabled())
	assert.False(t, cfg.Geniki.Enabled())
	assert.False(t, cfg.Daemon())
}

func TestLoadConfig_Overrides(t *testing.T) {
	env := validEnv()
	env["DB_DRIVER"] = "Postgres"
	env["COD_SETTLEMENT_DATE"] = "2024-01-05"
	env["RECONCILE_WORKERS"] = "8"
	env["RUN_TIMEOUT"] = "10m"
	env["PROVIDER_TIMEOUT"] = "5s"
	env["ACS_RATE_LIMIT"] = "2.5"
	env["RECONCILE_SCHEDULE"] = "0 */15 * * * *"
	env["LOG_LEVEL"] = "debug"
	env["GENIKI_APIURL"] = "https://api.taxydromiki.com/v2"
	env["GENIKI_USERNAME"] = "shop"
	env["GENIKI_PASSWORD"] = "pass"

	cfg, err := LoadConfig(envOf(env))

	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	require.NotNil(t, cfg.SettlementDate)
	assert.Equal(t, "2024-01-05", cfg.SettlementDate.Format(time.DateOnly))
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 10*time.Minute, cfg.RunTimeout)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.InDelta(t, 2.5, cfg.ACS.RateLimit, 0.0001)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.Geniki.Enabled())
	assert.True(t, cfg.Daemon())
}

func TestLoadConfig_OrdersTable(t *testing.T) {
	for _, table := range []string{"app_orders", "shop.app_orders", "Orders2024"} {
		env := validEnv()
		env["DB_ORDERS_TABLE"] = table

		cfg, err := LoadConfig(envOf(env))

		require.NoError(t, err, table)
		assert.Equal(t, table, cfg.OrdersTable)
	}
}

func TestLoadConfig_LegacyHostVariable(t *testing.T) {
	env := validEnv()
	delete(env, "DB_HOST")
	env["DB_SERVER"] = "legacy.internal"

	cfg, err := LoadConfig(envOf(env))

	require.NoError(t, err)
	assert.Equal(t, "legacy.internal", cfg.DBHost)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(env map[string]string)
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing db host",
			mutate:  func(env map[string]string) { delete(env, "DB_HOST") },
			wantErr: errs.ErrValueIsRequired,
			wantMsg: "DB_HOST",
		},
		{
			name: "no provider",
			mutate: func(env map[string]string) {
				delete(env, "ACS_APIURL")
			},
			wantErr: errs.ErrValueIsRequired,
			wantMsg: "GENIKI_APIURL",
		},
		{
			name:    "acs without api key",
			mutate:  func(env map[string]string) { delete(env, "ACS_APIKEY") },
			wantErr: errs.ErrValueIsRequired,
			wantMsg: "ACS_APIKEY",
		},
		{
			name: "geniki without password",
			mutate: func(env map[string]string) {
				env["GENIKI_APIURL"] = "https://geniki.test"
				env["GENIKI_USERNAME"] = "shop"
			},
			wantErr: errs.ErrValueIsRequired,
			wantMsg: "GENIKI_PASSWORD",
		},
		{
			name:    "unknown driver",
			mutate:  func(env map[string]string) { env["DB_DRIVER"] = "sqlite" },
			wantErr: errs.ErrValueIsInvalid,
			wantMsg: "DB_DRIVER",
		},
		{
			name:    "malformed settlement date",
			mutate:  func(env map[string]string) { env["COD_SETTLEMENT_DATE"] = "05/01/2024" },
			wantErr: errs.ErrValueIsInvalid,
			wantMsg: "COD_SETTLEMENT_DATE",
		},
		{
			name:    "zero workers",
			mutate:  func(env map[string]string) { env["RECONCILE_WORKERS"] = "0" },
			wantErr: errs.ErrValueIsOutOfRange,
			wantMsg: "RECONCILE_WORKERS",
		},
		{
			name:    "bad schedule",
			mutate:  func(env map[string]string) { env["RECONCILE_SCHEDULE"] = "every minute" },
			wantErr: errs.ErrValueIsInvalid,
			wantMsg: "RECONCILE_SCHEDULE",
		},
		{
			name:    "relative api url",
			mutate:  func(env map[string]string) { env["ACS_APIURL"] = "/api" },
			wantErr: errs.ErrValueIsInvalid,
			wantMsg: "ACS_APIURL",
		},
		{
			name:    "orders table with SQL",
			mutate:  func(env map[string]string) { env["DB_ORDERS_TABLE"] = "app_orders; DROP TABLE users" },
			wantErr: errs.ErrValueIsInvalid,
			wantMsg: "DB_ORDERS_TABLE",
		},
		{
			name:    "quoted orders table",
			mutate:  func(env map[string]string) { env["DB_ORDERS_TABLE"] = `"app_orders"` },
			wantErr: errs.ErrValueIsInvalid,
			wantMsg: "DB_ORDERS_TABLE",
		},
		{
			name:    "bad log level",
			mutate:  func(env map[string]string) { env["LOG_LEVEL"] = "verbose" },
			wantErr: errs.ErrValueIsInvalid,
			wantMsg: "LOG_LEVEL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := validEnv()
			tt.mutate(env)

			_, err := LoadConfig(envOf(env))

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadConfig_ReportsAllProblems(t *testing.T) {
	_, err := LoadConfig(envOf(map[string]string{}))

	require.Error(t, err)
	for _, name := range []string{"DB_HOST", "DB_USER", "DB_NAME", "ACS_APIURL or GENIKI_APIURL"} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{
		DBDriver:   DriverMySQL,
		DBHost:     "db",
		DBUser:     "u",
		DBPassword: "p",
		DBName:     "shop",
	}
	assert.Equal(t,
		"u:p@tcp(db:3306)/shop?charset=utf8mb4&parseTime=true&loc=Local&clientFoundRows=true",
		cfg.DSN(),
	)

	cfg.DBDriver = DriverPostgres
	cfg.DBPort = "5432"
	cfg.DBSslMode = "disable"
	assert.Equal(t, "host=db user=u password=p dbname=shop port=5432 sslmode=disable", cfg.DSN())
}
