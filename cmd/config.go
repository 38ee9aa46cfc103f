package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"reconciler/internal/jobs"
	"reconciler/internal/pkg/errs"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"

	defaultWorkers         = 4
	defaultProviderTimeout = 15 * time.Second
	defaultHTTPPort        = "8080"
	maxWorkers             = 256
)

// tableNamePattern accepts a plain or schema-qualified SQL identifier.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}(\.[A-Za-z_][A-Za-z0-9_]{0,62})?$`)

type ACSConfig struct {
	APIURL          string
	CompanyID       string
	CompanyPassword string
	UserID          string
	UserPassword    string
	APIKey          string
	RateLimit       float64
}

func (c ACSConfig) Enabled() bool { return c.APIURL != "" }

type GenikiConfig struct {
	APIURL    string
	Username  string
	Password  string
	APIKey    string
	RateLimit float64
}

func (c GenikiConfig) Enabled() bool { return c.APIURL != "" }

type Config struct {
	DBDriver    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSslMode   string
	OrdersTable string

	ACS    ACSConfig
	Geniki GenikiConfig

	// SettlementDate replays the settlement feed of a past day.
	SettlementDate  *time.Time
	Workers         int
	RunTimeout      time.Duration
	ProviderTimeout time.Duration

	// Schedule switches the process to daemon mode when set.
	Schedule string
	HTTPPort string

	JaegerEndpoint string
	PushgatewayURL string
	LogLevel       slog.Level
}

// LoadConfig reads the configuration through getenv and validates it. All
// problems are reported at once.
func LoadConfig(getenv func(string) string) (Config, error) {
	var parseErrs []error

	cfg := Config{
		DBDriver:    strings.ToLower(strings.TrimSpace(getenv("DB_DRIVER"))),
		DBHost:      getenv("DB_HOST"),
		DBPort:      getenv("DB_PORT"),
		DBUser:      getenv("DB_USER"),
		DBPassword:  getenv("DB_PASSWORD"),
		DBName:      getenv("DB_NAME"),
		DBSslMode:   getenv("DB_SSLMODE"),
		OrdersTable: getenv("DB_ORDERS_TABLE"),
		ACS: ACSConfig{
			APIURL:          getenv("ACS_APIURL"),
			CompanyID:       getenv("ACS_COMPANYID"),
			CompanyPassword: getenv("ACS_COMPANYPASS"),
			UserID:          getenv("ACS_USERNAME"),
			UserPassword:    getenv("ACS_PASSWORD"),
			APIKey:          getenv("ACS_APIKEY"),
		},
		Geniki: GenikiConfig{
			APIURL:   getenv("GENIKI_APIURL"),
			Username: getenv("GENIKI_USERNAME"),
			Password: getenv("GENIKI_PASSWORD"),
			APIKey:   getenv("GENIKI_APIKEY"),
		},
		Workers:         defaultWorkers,
		ProviderTimeout: defaultProviderTimeout,
		Schedule:        strings.TrimSpace(getenv("RECONCILE_SCHEDULE")),
		HTTPPort:        getenv("HTTP_PORT"),
		JaegerEndpoint:  getenv("JAEGER_ENDPOINT"),
		PushgatewayURL:  getenv("PUSHGATEWAY_URL"),
		LogLevel:        slog.LevelInfo,
	}

	// DB_SERVER is the older name of DB_HOST.
	if cfg.DBHost == "" {
		cfg.DBHost = getenv("DB_SERVER")
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = DriverMySQL
	}
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = defaultHTTPPort
	}

	if v := getenv("ACS_RATE_LIMIT"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate < 0 {
			parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause("ACS_RATE_LIMIT", err))
		}
		cfg.ACS.RateLimit = rate
	}
	if v := getenv("GENIKI_RATE_LIMIT"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate < 0 {
			parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause("GENIKI_RATE_LIMIT", err))
		}
		cfg.Geniki.RateLimit = rate
	}
	if v := getenv("COD_SETTLEMENT_DATE"); v != "" {
		date, err := time.ParseInLocation(time.DateOnly, v, time.Local)
		if err != nil {
			parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause("COD_SETTLEMENT_DATE", err))
		} else {
			cfg.SettlementDate = &date
		}
	}
	if v := getenv("RECONCILE_WORKERS"); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause("RECONCILE_WORKERS", err))
		}
		cfg.Workers = workers
	}
	if v := getenv("RUN_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause("RUN_TIMEOUT", err))
		}
		cfg.RunTimeout = timeout
	}
	if v := getenv("PROVIDER_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause("PROVIDER_TIMEOUT", err))
		}
		cfg.ProviderTimeout = timeout
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause("LOG_LEVEL", err))
		}
	}

	if err := errors.Join(append(parseErrs, cfg.Validate())...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is complete enough to start a run.
func (c Config) Validate() error {
	var errList []error

	required := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			errList = append(errList, errs.NewValueIsRequiredError(name))
		}
	}

	switch c.DBDriver {
	case DriverMySQL, DriverPostgres:
	default:
		errList = append(errList, errs.NewValueIsInvalidError("DB_DRIVER"))
	}
	required("DB_HOST", c.DBHost)
	required("DB_USER", c.DBUser)
	required("DB_NAME", c.DBName)
	if c.OrdersTable != "" && !tableNamePattern.MatchString(c.OrdersTable) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"DB_ORDERS_TABLE",
			fmt.Errorf("%q is not a plain SQL identifier", c.OrdersTable),
		))
	}

	if !c.ACS.Enabled() && !c.Geniki.Enabled() {
		errList = append(errList, errs.NewValueIsRequiredError("ACS_APIURL or GENIKI_APIURL"))
	}
	if c.ACS.Enabled() {
		errList = append(errList, validateURL("ACS_APIURL", c.ACS.APIURL))
		required("ACS_COMPANYID", c.ACS.CompanyID)
		required("ACS_COMPANYPASS", c.ACS.CompanyPassword)
		required("ACS_USERNAME", c.ACS.UserID)
		required("ACS_PASSWORD", c.ACS.UserPassword)
		required("ACS_APIKEY", c.ACS.APIKey)
	}
	if c.Geniki.Enabled() {
		errList = append(errList, validateURL("GENIKI_APIURL", c.Geniki.APIURL))
		required("GENIKI_USERNAME", c.Geniki.Username)
		required("GENIKI_PASSWORD", c.Geniki.Password)
	}

	if c.Workers < 1 || c.Workers > maxWorkers {
		errList = append(errList, errs.NewValueIsOutOfRangeError("RECONCILE_WORKERS", c.Workers, 1, maxWorkers))
	}
	if c.RunTimeout < 0 {
		errList = append(errList, errs.NewValueIsInvalidError("RUN_TIMEOUT"))
	}
	if c.ProviderTimeout <= 0 {
		errList = append(errList, errs.NewValueIsInvalidError("PROVIDER_TIMEOUT"))
	}
	if c.Schedule != "" {
		if err := jobs.ParseSchedule(c.Schedule); err != nil {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause("RECONCILE_SCHEDULE", err))
		}
	}

	return errors.Join(errList...)
}

// Daemon reports whether the process should keep running on a schedule.
func (c Config) Daemon() bool { return c.Schedule != "" }

// DSN builds the connection string for DBDriver.
func (c Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		parts := []string{
			"host=" + c.DBHost,
			"user=" + c.DBUser,
			"password=" + c.DBPassword,
			"dbname=" + c.DBName,
		}
		if c.DBPort != "" {
			parts = append(parts, "port="+c.DBPort)
		}
		if c.DBSslMode != "" {
			parts = append(parts, "sslmode="+c.DBSslMode)
		}
		return strings.Join(parts, " ")
	}

	port := c.DBPort
	if port == "" {
		port = "3306"
	}
	// clientFoundRows makes an idempotent update report its matched row.
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local&clientFoundRows=true",
		c.DBUser, c.DBPassword, c.DBHost, port, c.DBName,
	)
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}
