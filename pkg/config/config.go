package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Redis   RedisConfig
	Billing BillingConfig
	Log     LogConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production, demo
	Name string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int // 0 = valor de pgxpool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host                  string
	Port                  int
	RequestTimeoutSeconds int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RequestTimeout tiempo máximo de cada request contra el almacenamiento.
func (c HTTPConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// RedisConfig caché de reportes. URL vacía = sin caché.
type RedisConfig struct {
	URL string
}

// BillingConfig parámetros del motor de cuotas.
// Los valores Default* se usan al materializar la configuración económica de un plan por primera vez.
type BillingConfig struct {
	DefaultPlanSlug          string
	DefaultCurrency          string
	DefaultMonthlyAmount     decimal.Decimal
	DefaultDueDay            int
	DefaultGracePeriodDays   int
	DefaultLateFeePercentage decimal.Decimal
	LifetimeThreshold        int // cuotas pagadas para ser VITALICIO; 0 lo desactiva
	DashboardCacheTTLSeconds int
	ReportCacheTTLSeconds    int
	Timezone                 string
}

// Location zona horaria con la que se calcula "hoy".
func (c BillingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LogConfig nivel del logger.
type LogConfig struct {
	Level string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, BILLING_DUE_DAY, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	monthly, err := getDecimal(v, "BILLING_MONTHLY_AMOUNT", "1000")
	if err != nil {
		return nil, err
	}
	lateFee, err := getDecimal(v, "BILLING_LATE_FEE_PERCENTAGE", "0")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "club-cuotas"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "club_cuotas"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "club-cuotas"),
		},
		HTTP: HTTPConfig{
			Host:                  getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:                  getInt(v, "HTTP_PORT", 8080),
			RequestTimeoutSeconds: getInt(v, "HTTP_REQUEST_TIMEOUT_SECONDS", 10),
		},
		Redis: RedisConfig{
			URL: getString(v, "REDIS_URL", ""),
		},
		Billing: BillingConfig{
			DefaultPlanSlug:          getString(v, "BILLING_DEFAULT_PLAN", "default"),
			DefaultCurrency:          getString(v, "BILLING_CURRENCY", "ARS"),
			DefaultMonthlyAmount:     monthly,
			DefaultDueDay:            getInt(v, "BILLING_DUE_DAY", 10),
			DefaultGracePeriodDays:   getInt(v, "BILLING_GRACE_PERIOD_DAYS", 5),
			DefaultLateFeePercentage: lateFee,
			LifetimeThreshold:        getInt(v, "BILLING_LIFETIME_THRESHOLD", 120),
			DashboardCacheTTLSeconds: getInt(v, "BILLING_DASHBOARD_CACHE_TTL_SECONDS", 60),
			ReportCacheTTLSeconds:    getInt(v, "BILLING_REPORT_CACHE_TTL_SECONDS", 300),
			Timezone:                 getString(v, "BILLING_TIMEZONE", "UTC"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
	}

	if cfg.Billing.DefaultDueDay < 1 || cfg.Billing.DefaultDueDay > 31 {
		return nil, fmt.Errorf("config: BILLING_DUE_DAY fuera de rango: %d", cfg.Billing.DefaultDueDay)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getDecimal(v *viper.Viper, key, def string) (decimal.Decimal, error) {
	raw := getString(v, key, def)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: %s no es un número válido: %w", key, err)
	}
	return d, nil
}
