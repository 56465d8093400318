// Package config loads the portal configuration from YAML with environment
// overrides for deployment secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arrondavide/psite/internal/app/domain/session"
	"github.com/arrondavide/psite/internal/app/services/catalog"
	"github.com/arrondavide/psite/internal/app/services/wallet"
	"github.com/arrondavide/psite/internal/app/storage/supabasestore"
)

// Duration wraps time.Duration so YAML values can use "24h" style strings.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full portal configuration.
type Config struct {
	Supabase SupabaseConfig `yaml:"supabase"`
	Wallet   WalletConfig   `yaml:"wallet"`
	Portal   PortalConfig   `yaml:"portal"`
}

// SupabaseConfig points the gateway at the hosted backend.
type SupabaseConfig struct {
	ProjectURL string `yaml:"project_url"`
	AnonKey    string `yaml:"anon_key"`
	Bucket     string `yaml:"bucket"`
}

// WalletConfig controls session handling.
type WalletConfig struct {
	ChainID    string   `yaml:"chain_id"`
	SessionTTL Duration `yaml:"session_ttl"`
	// SessionFile is where the persisted session record lives.
	SessionFile string `yaml:"session_file"`
}

// PortalConfig controls the preview server and catalog rendering.
type PortalConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	PageSize   int    `yaml:"page_size"`
	LogLevel   string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Supabase: SupabaseConfig{
			Bucket: supabasestore.DefaultBucket,
		},
		Wallet: WalletConfig{
			ChainID:     wallet.DefaultChainID,
			SessionTTL:  Duration(session.DefaultTTL),
			SessionFile: "session.json",
		},
		Portal: PortalConfig{
			ListenAddr: ":8080",
			PageSize:   catalog.DefaultPageSize,
			LogLevel:   "info",
		},
	}
}

// Load reads path when it exists, falls back to defaults when it does not,
// and applies environment overrides last.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults plus environment cover the common dev setup.
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if cfg.Portal.PageSize <= 0 {
		return Config{}, fmt.Errorf("portal.page_size must be positive, got %d", cfg.Portal.PageSize)
	}
	if cfg.Wallet.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("wallet.session_ttl must be positive, got %s", cfg.Wallet.SessionTTL.Std())
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SUPABASE_URL"); v != "" {
		cfg.Supabase.ProjectURL = v
	}
	if v := os.Getenv("SUPABASE_ANON_KEY"); v != "" {
		cfg.Supabase.AnonKey = v
	}
	if v := os.Getenv("SUPABASE_BUCKET"); v != "" {
		cfg.Supabase.Bucket = v
	}
	if v := os.Getenv("PORTAL_LISTEN_ADDR"); v != "" {
		cfg.Portal.ListenAddr = v
	}
	if v := os.Getenv("PORTAL_LOG_LEVEL"); v != "" {
		cfg.Portal.LogLevel = v
	}
	if v := os.Getenv("WALLET_CHAIN_ID"); v != "" {
		cfg.Wallet.ChainID = v
	}
}
