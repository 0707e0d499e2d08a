package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	// Store selects the liked-headline backend. "sql" is the
	// server-authoritative multi-user mode; "local" runs a single-user
	// embedded Badger store with no external database and no OIDC.
	Store struct {
		Backend string
		Path    string // badger directory, local backend only
	}
	DB struct {
		Driver string
		DSN    string
	}
	OIDC struct {
		Issuer       string
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}
	AdGen struct {
		Provider string // openai, anthropic, gemini, or empty to disable
		Model    string
		APIKey   string
		BaseURL  string
		Prompt   string // custom prompt template, optional
	}
	RateLimit struct {
		Window time.Duration
		Max    int
	}
	LocalOwner      string // identity injected in local mode
	AdminEmail      string
	SessionLifetime time.Duration
}

// Load reads config from environment (COPY_ prefix) and optional copysmith.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COPY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("copysmith")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("store.backend", "sql")
	v.SetDefault("store.path", "copysmith-data")
	v.SetDefault("local_owner", "local")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("ratelimit.window", "15m")
	v.SetDefault("ratelimit.max", 100)

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.Store.Backend = v.GetString("store.backend")
	cfg.Store.Path = v.GetString("store.path")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.OIDC.Issuer = v.GetString("oidc.issuer")
	cfg.OIDC.ClientID = v.GetString("oidc.client_id")
	cfg.OIDC.ClientSecret = v.GetString("oidc.client_secret")
	cfg.OIDC.RedirectURL = v.GetString("oidc.redirect_url")
	cfg.AdGen.Provider = v.GetString("adgen.provider")
	cfg.AdGen.Model = v.GetString("adgen.model")
	cfg.AdGen.APIKey = v.GetString("adgen.api_key")
	cfg.AdGen.BaseURL = v.GetString("adgen.base_url")
	cfg.AdGen.Prompt = v.GetString("adgen.prompt")
	cfg.LocalOwner = v.GetString("local_owner")
	cfg.AdminEmail = v.GetString("admin_email")

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid COPY_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	window, err := time.ParseDuration(v.GetString("ratelimit.window"))
	if err != nil {
		return nil, fmt.Errorf("invalid COPY_RATELIMIT_WINDOW: %w", err)
	}
	cfg.RateLimit.Window = window
	cfg.RateLimit.Max = v.GetInt("ratelimit.max")

	switch cfg.Store.Backend {
	case "local":
		if cfg.Store.Path == "" {
			return nil, fmt.Errorf("COPY_STORE_PATH is required for the local backend")
		}
	case "sql":
		if cfg.DB.Driver == "" {
			return nil, fmt.Errorf("COPY_DB_DRIVER is required (sqlite3, mysql, postgres)")
		}
		if cfg.DB.DSN == "" {
			return nil, fmt.Errorf("COPY_DB_DSN is required")
		}
		if cfg.OIDC.Issuer == "" {
			return nil, fmt.Errorf("COPY_OIDC_ISSUER is required")
		}
		if cfg.OIDC.ClientID == "" {
			return nil, fmt.Errorf("COPY_OIDC_CLIENT_ID is required")
		}
		if cfg.OIDC.ClientSecret == "" {
			return nil, fmt.Errorf("COPY_OIDC_CLIENT_SECRET is required")
		}
		if cfg.OIDC.RedirectURL == "" {
			return nil, fmt.Errorf("COPY_OIDC_REDIRECT_URL is required")
		}
	default:
		return nil, fmt.Errorf("unsupported COPY_STORE_BACKEND %q: must be sql or local", cfg.Store.Backend)
	}

	return cfg, nil
}
