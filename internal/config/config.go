package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when CONFIG_PATH is not set
const DefaultPath = "config/config.yml"

type AppConfig struct {
	Port           int      `yaml:"port"`
	GinMode        string   `yaml:"gin_mode"`
	SiteTitle      string   `yaml:"site_title"`
	TrustedProxies []string `yaml:"trusted_proxies"`
}

type DatabaseConfig struct {
	Driver        string `yaml:"driver"`
	DSN           string `yaml:"dsn"`
	LookupTimeout string `yaml:"lookup_timeout"`
	LogSQL        bool   `yaml:"log_sql"`
	BcryptCost    int    `yaml:"bcrypt_cost"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	Backend string `yaml:"backend"`
	TTL     string `yaml:"ttl"`
}

type ActorConfig struct {
	CookieName string `yaml:"cookie_name"`
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	TTL        string `yaml:"ttl"`
	Secure     bool   `yaml:"secure"`
}

type LoginConfig struct {
	StepUp        map[string]bool `yaml:"step_up"`
	AttemptTTL    string          `yaml:"attempt_ttl"`
	SweepInterval string          `yaml:"sweep_interval"`
	RatePerMinute int             `yaml:"rate_per_minute"`
	RateBurst     int             `yaml:"rate_burst"`
	IPRatePerMin  int             `yaml:"ip_rate_per_minute"`
	IPRateBurst   int             `yaml:"ip_rate_burst"`
	AlertOnStepUp bool            `yaml:"alert_on_step_up"`
}

type GuardConfig struct {
	Unauthorized string `yaml:"unauthorized"`
	LoginPath    string `yaml:"login_path"`
	HomePath     string `yaml:"home_path"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// SeedUser is a directory account created on an empty database
type SeedUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Phone    string `yaml:"phone"`
	Avatar   string `yaml:"avatar"`
}

// SeedArticle is an article created on an empty database. AuthorEmail
// links it to a seeded user.
type SeedArticle struct {
	Title       string `yaml:"title"`
	AuthorEmail string `yaml:"author_email"`
	Content     string `yaml:"content"`
	ImageURL    string `yaml:"image_url"`
	Status      string `yaml:"status"`
}

// SeedRule gates a resource pattern to roles when no policies exist yet
type SeedRule struct {
	Resource string   `yaml:"resource"`
	Roles    []string `yaml:"roles"`
}

type SeedConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Users       []SeedUser    `yaml:"users"`
	Articles    []SeedArticle `yaml:"articles"`
	AccessRules []SeedRule    `yaml:"access_rules"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Session  SessionConfig  `yaml:"session"`
	Actor    ActorConfig    `yaml:"actor"`
	Login    LoginConfig    `yaml:"login"`
	Guard    GuardConfig    `yaml:"guard"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Casbin   CasbinConfig   `yaml:"casbin"`
	Log      LogConfig      `yaml:"log"`
	Seed     SeedConfig     `yaml:"seed"`
}

type Config struct {
	Port           string
	GinMode        string
	SiteTitle      string
	TrustedProxies []string

	DBDriver         string
	DSN              string
	DirectoryTimeout time.Duration
	LogSQL           bool
	BcryptCost       int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionBackend string
	SessionTTL     time.Duration

	ActorCookie  string
	ActorSecret  string
	ActorIssuer  string
	ActorTTL     time.Duration
	SecureCookie bool

	StepUp          map[string]bool
	AttemptTTL      time.Duration
	SweepInterval   time.Duration
	LoginRatePerMin int
	LoginRateBurst  int
	IPRatePerMin    int
	IPRateBurst     int
	AlertOnStepUp   bool

	Unauthorized string
	LoginPath    string
	HomePath     string

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	CasbinModelPath string

	LogLevel  string
	LogPretty bool

	Seed SeedConfig
}

// Default returns the settings used for anything the file leaves out
func Default() ConfigFile {
	return ConfigFile{
		App:      AppConfig{Port: 8080, GinMode: "release", SiteTitle: "News and Public Opinion"},
		Database: DatabaseConfig{Driver: "postgres", LookupTimeout: "3s", BcryptCost: 10},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Session:  SessionConfig{Backend: "memory", TTL: "24h"},
		Actor:    ActorConfig{CookieName: "np_actor", Issuer: "newsportal", TTL: "720h"},
		Login: LoginConfig{
			AttemptTTL:    "10m",
			SweepInterval: "1m",
			RatePerMinute: 10,
			RateBurst:     5,
			IPRatePerMin:  60,
			IPRateBurst:   20,
			AlertOnStepUp: true,
		},
		Guard: GuardConfig{Unauthorized: "home", LoginPath: "/login", HomePath: "/"},
		Log:   LogConfig{Level: "info"},
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// Load reads .env, then the YAML file named by CONFIG_PATH (or DefaultPath),
// then applies environment overrides and validates the result.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	path, explicit := os.LookupEnv("CONFIG_PATH")
	if !explicit {
		path = DefaultPath
	}
	configFile, err := loadConfigFile(path)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		def := Default()
		configFile = &def
	}
	return FromFile(configFile)
}

// FromFile applies environment overrides to a parsed file and validates it
func FromFile(configFile *ConfigFile) (*Config, error) {
	f := *configFile
	f.App.Port = envInt("PORT", f.App.Port)
	f.App.GinMode = env("GIN_MODE", f.App.GinMode)
	f.Database.Driver = env("DATABASE_DRIVER", f.Database.Driver)
	f.Database.DSN = env("DATABASE_DSN", f.Database.DSN)
	f.Redis.Addr = env("REDIS_ADDR", f.Redis.Addr)
	f.Redis.Password = env("REDIS_PASSWORD", f.Redis.Password)
	f.Redis.DB = envInt("REDIS_DB", f.Redis.DB)
	f.Session.Backend = env("SESSION_BACKEND", f.Session.Backend)
	f.Actor.Secret = env("ACTOR_SECRET", f.Actor.Secret)
	f.Actor.Secure = envBool("ACTOR_COOKIE_SECURE", f.Actor.Secure)
	f.Guard.Unauthorized = env("GUARD_UNAUTHORIZED", f.Guard.Unauthorized)
	f.Twilio.AccountSID = env("TWILIO_ACCOUNT_SID", f.Twilio.AccountSID)
	f.Twilio.AuthToken = env("TWILIO_AUTH_TOKEN", f.Twilio.AuthToken)
	f.Twilio.FromNumber = env("TWILIO_FROM_NUMBER", f.Twilio.FromNumber)
	f.Log.Level = env("LOG_LEVEL", f.Log.Level)
	f.Log.Pretty = envBool("LOG_PRETTY", f.Log.Pretty)

	cfg := &Config{
		Port:            strconv.Itoa(f.App.Port),
		GinMode:         f.App.GinMode,
		SiteTitle:       f.App.SiteTitle,
		TrustedProxies:  f.App.TrustedProxies,
		DBDriver:        f.Database.Driver,
		DSN:             f.Database.DSN,
		LogSQL:          f.Database.LogSQL,
		BcryptCost:      f.Database.BcryptCost,
		RedisAddr:       f.Redis.Addr,
		RedisPassword:   f.Redis.Password,
		RedisDB:         f.Redis.DB,
		SessionBackend:  f.Session.Backend,
		ActorCookie:     f.Actor.CookieName,
		ActorSecret:     f.Actor.Secret,
		ActorIssuer:     f.Actor.Issuer,
		SecureCookie:    f.Actor.Secure,
		StepUp:          f.Login.StepUp,
		LoginRatePerMin: f.Login.RatePerMinute,
		LoginRateBurst:  f.Login.RateBurst,
		IPRatePerMin:    f.Login.IPRatePerMin,
		IPRateBurst:     f.Login.IPRateBurst,
		AlertOnStepUp:   f.Login.AlertOnStepUp,
		Unauthorized:    f.Guard.Unauthorized,
		LoginPath:       f.Guard.LoginPath,
		HomePath:        f.Guard.HomePath,
		TwilioSID:       f.Twilio.AccountSID,
		TwilioToken:     f.Twilio.AuthToken,
		TwilioFrom:      f.Twilio.FromNumber,
		CasbinModelPath: f.Casbin.ModelPath,
		LogLevel:        f.Log.Level,
		LogPretty:       f.Log.Pretty,
		Seed:            f.Seed,
	}
	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"database lookup timeout", f.Database.LookupTimeout, &cfg.DirectoryTimeout},
		{"session TTL", f.Session.TTL, &cfg.SessionTTL},
		{"actor TTL", f.Actor.TTL, &cfg.ActorTTL},
		{"login attempt TTL", f.Login.AttemptTTL, &cfg.AttemptTTL},
		{"login sweep interval", f.Login.SweepInterval, &cfg.SweepInterval},
	}

	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile parses a YAML config file on top of Default
func LoadFile(path string) (*ConfigFile, error) {
	return loadConfigFile(path)
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
