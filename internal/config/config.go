// Package config loads server configuration with viper.
//
// Precedence (highest wins): environment variables → config.yaml → defaults.
// Every key has a sane default except JWT_SECRET, which has no safe default
// by definition — the server refuses to start without one.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// GitHubOAuth holds the optional GitHub sign-in credentials. All three must
// be set together; when absent the OAuth routes simply aren't registered.
type GitHubOAuth struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Config is everything the server needs to run.
type Config struct {
	Port          int
	DBPath        string
	JWTSecret     string
	SessionTTL    time.Duration
	SecureCookies bool
	LogLevel      string

	// DefaultLocale must be a member of Locales; it is also the fallback
	// when Accept-Language matches nothing.
	DefaultLocale string
	Locales       []string

	GitHub GitHubOAuth
}

// Load reads configuration from the environment and an optional config.yaml
// in the working directory.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 8080)
	v.SetDefault("db_path", "data/snippets.db")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("secure_cookies", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("default_locale", "en")
	v.SetDefault("locales", []string{"en", "vi"})

	// PORT, DB_PATH, JWT_SECRET, ... override file values.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine — env vars and defaults cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:          v.GetInt("port"),
		DBPath:        v.GetString("db_path"),
		JWTSecret:     v.GetString("jwt_secret"),
		SessionTTL:    v.GetDuration("session_ttl"),
		SecureCookies: v.GetBool("secure_cookies"),
		LogLevel:      v.GetString("log_level"),
		DefaultLocale: v.GetString("default_locale"),
		Locales:       v.GetStringSlice("locales"),
		GitHub: GitHubOAuth{
			ClientID:     v.GetString("github_client_id"),
			ClientSecret: v.GetString("github_client_secret"),
			CallbackURL:  v.GetString("github_callback_url"),
		},
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required (try: openssl rand -hex 32)")
	}

	// The resolver treats its first supported locale as the fallback, so the
	// default must lead the list.
	cfg.Locales = frontLoad(cfg.Locales, cfg.DefaultLocale)

	if cfg.GitHub.ClientID != "" && cfg.GitHub.CallbackURL == "" {
		cfg.GitHub.CallbackURL = fmt.Sprintf("http://localhost:%d/api/auth/github/callback", cfg.Port)
	}

	return cfg, nil
}

// frontLoad moves def to the front of locales, adding it if missing.
func frontLoad(locales []string, def string) []string {
	out := []string{def}
	for _, l := range locales {
		if l != def {
			out = append(out, l)
		}
	}
	return out
}
