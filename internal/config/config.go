package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
// It captures the API endpoint, local storage, and publish policy.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Account   AccountConfig   `yaml:"account"`
	Storage   StorageConfig   `yaml:"storage"`
	Publisher PublisherConfig `yaml:"publisher"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type ServerConfig struct {
	// Base URL of the Spacebook API, including the version prefix.
	BaseURL string `yaml:"baseURL"`
}

type AccountConfig struct {
	// Email used for login. The password is never stored in config;
	// it is read from SPACEBOOK_PASSWORD or prompted per command.
	Email string `yaml:"email"`
}

type StorageConfig struct {
	// Path to the sqlite database holding drafts and the session.
	DBPath string `yaml:"dbPath"`
}

type PublisherConfig struct {
	// Per-attempt request timeout in seconds.
	RequestTimeoutSeconds int `yaml:"requestTimeoutSeconds"`
	// Max attempts for retriable statuses (429/5xx).
	MaxAttempts int `yaml:"maxAttempts"`
	// Base backoff between retries in milliseconds.
	BaseBackoffMillis int `yaml:"baseBackoffMillis"`
}

type MetricsConfig struct {
	// Listen address for /metrics, empty disables the server.
	Addr string `yaml:"addr"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Server:  ServerConfig{BaseURL: "http://localhost:3333/api/1.0.0"},
		Account: AccountConfig{Email: ""},
		Storage: StorageConfig{DBPath: "./spacebook.db"},
		Publisher: PublisherConfig{
			RequestTimeoutSeconds: 15,
			MaxAttempts:           5,
			BaseBackoffMillis:     500,
		},
		Metrics: MetricsConfig{Addr: ""},
	}
}

// ResolveEnv fills in config fields from environment variables if not
// set. A .env file in the working directory is honored when present.
func (c *Config) ResolveEnv() {
	_ = godotenv.Load()
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = os.Getenv("SPACEBOOK_BASE_URL")
	}
	if c.Account.Email == "" {
		c.Account.Email = os.Getenv("SPACEBOOK_EMAIL")
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = os.Getenv("SPACEBOOK_DB_PATH")
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = os.Getenv("METRICS_ADDR")
	}
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
