package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Composio ComposioConfig
	Calendar CalendarConfig
	OpenAI   OpenAIConfig
	Redis    RedisConfig
	Session  SessionConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	CallbackURL string
	CORSOrigins []string
}

type ComposioConfig struct {
	APIKey       string
	BaseURL      string
	AuthConfigID string
}

type CalendarConfig struct {
	Source string // "broker" | "google"
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

const (
	CalendarSourceBroker = "broker"
	CalendarSourceGoogle = "google"
)

// Init loads .env (if present) and the process environment into a Config.
func Init() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return Load(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 7070)
	v.SetDefault("COMPOSIO_BASE_URL", "https://backend.composio.dev")
	v.SetDefault("CALENDAR_SOURCE", CalendarSourceBroker)
	v.SetDefault("OPENAI_MODEL", "gpt-5-nano")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_TTL", "720h")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "logfmt")
}

// Load builds a Config from an already-populated viper instance.
func Load(v *viper.Viper) (*Config, error) {
	authConfigID := v.GetString("COMPOSIO_AUTH_CONFIG_ID")
	if authConfigID == "" {
		authConfigID = v.GetString("GOOGLE_CALENDAR_AUTH_CONFIG_ID")
	}

	source := strings.ToLower(strings.TrimSpace(v.GetString("CALENDAR_SOURCE")))
	if source != CalendarSourceBroker && source != CalendarSourceGoogle {
		return nil, fmt.Errorf("invalid CALENDAR_SOURCE %q: want %q or %q", source, CalendarSourceBroker, CalendarSourceGoogle)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("SERVER_HOST"),
			Port:        v.GetInt("SERVER_PORT"),
			CallbackURL: strings.TrimRight(v.GetString("APP_CALLBACK_URL"), "/"),
			CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		},
		Composio: ComposioConfig{
			APIKey:       v.GetString("COMPOSIO_API_KEY"),
			BaseURL:      strings.TrimRight(v.GetString("COMPOSIO_BASE_URL"), "/"),
			AuthConfigID: authConfigID,
		},
		Calendar: CalendarConfig{
			Source: source,
		},
		OpenAI: OpenAIConfig{
			APIKey:  v.GetString("OPENAI_API_KEY"),
			BaseURL: v.GetString("OPENAI_BASE_URL"),
			Model:   v.GetString("OPENAI_MODEL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Secret: v.GetString("SESSION_SECRET"),
			TTL:    v.GetDuration("SESSION_TTL"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid SERVER_PORT %d", cfg.Server.Port)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
