package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Upload   UploadConfig   `yaml:"upload"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

// JWTConfig holds the signing secret plus previously used secrets. Tokens
// issued under an old secret stay valid until they expire, so the secret can
// be rotated without logging everyone out.
type JWTConfig struct {
	Secret     string   `yaml:"secret"`
	OldSecrets []string `yaml:"old_secrets"`
	ExpireHour int      `yaml:"expire_hour"`
}

type UploadConfig struct {
	Dir           string `yaml:"dir"`
	MaxAvatarSize int64  `yaml:"max_avatar_size"` // bytes
}

type LogConfig struct {
	Level         string `yaml:"level"`
	RetentionDays int    `yaml:"retention_days"` // audit rows kept in the DB
}

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.overrideFromEnv()
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "5000",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "tic_projects.db",
		},
		JWT: JWTConfig{
			Secret:     "tic-projects-platform-secret-key-2025",
			OldSecrets: nil,
			ExpireHour: 168, // 7 days
		},
		Upload: UploadConfig{
			Dir:           "public/uploads",
			MaxAvatarSize: 5 * 1024 * 1024,
		},
		Log: LogConfig{
			Level:         "info",
			RetentionDays: 30,
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.Database.DSN = dsn
		if os.Getenv("DB_DRIVER") == "" {
			c.Database.Driver = "postgres"
		}
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		// The configured secret becomes a fallback so tokens signed under it
		// keep verifying after the rotation.
		if c.JWT.Secret != secret {
			c.JWT.OldSecrets = append([]string{c.JWT.Secret}, c.JWT.OldSecrets...)
		}
		c.JWT.Secret = secret
	}
	if old := os.Getenv("JWT_OLD_SECRETS"); old != "" {
		for _, s := range strings.Split(old, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.JWT.OldSecrets = append(c.JWT.OldSecrets, s)
			}
		}
	}
	if hours := os.Getenv("JWT_EXPIRE_HOUR"); hours != "" {
		if h, err := strconv.Atoi(hours); err == nil && h > 0 {
			c.JWT.ExpireHour = h
		}
	}
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		c.Upload.Dir = dir
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// Secrets returns the verification secrets in priority order: the current
// signing secret first, then older ones.
func (c *JWTConfig) Secrets() []string {
	secrets := make([]string, 0, 1+len(c.OldSecrets))
	secrets = append(secrets, c.Secret)
	secrets = append(secrets, c.OldSecrets...)
	return secrets
}
