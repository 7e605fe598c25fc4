package app

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/quizdash/internal/export"
	"github.com/shrimpsizemoose/quizdash/internal/models"
	"github.com/shrimpsizemoose/quizdash/internal/snapshot"
	"github.com/shrimpsizemoose/quizdash/internal/source"
	"github.com/shrimpsizemoose/quizdash/internal/table"
)

const (
	DefaultPort               = ":8501"
	DefaultPassword           = "1234"
	DefaultCookieName         = "quizdash_session"
	DefaultSessionTTL         = 12 * time.Hour
	DefaultSessionKeyTemplate = "quizdash:session:{session}"
	DefaultBackendTimeout     = 10 * time.Second
)

type QuestionConfig struct {
	Label string `toml:"label"`
}

type Config struct {
	Server struct {
		Port string `toml:"port" validate:"required"`
	} `toml:"server"`

	Backend struct {
		URL            string `toml:"url"`
		Key            string `toml:"key"`
		Table          string `toml:"table" validate:"required"`
		TimeoutSeconds int    `toml:"timeout_seconds" validate:"gte=0"`
		MigrationsDir  string `toml:"migrations_dir"`
	} `toml:"backend"`

	Cache struct {
		TTLSeconds int `toml:"ttl_seconds" validate:"gte=0"`
	} `toml:"cache"`

	Auth struct {
		Password           string `toml:"password"`
		CookieName         string `toml:"cookie_name" validate:"required"`
		SessionTTLSeconds  int    `toml:"session_ttl_seconds" validate:"gte=0"`
		RedisURL           string `toml:"redis_url" validate:"omitempty,url"`
		SessionKeyTemplate string `toml:"session_key_template" validate:"required,contains={session}"`
		SecureCookie       bool   `toml:"secure_cookie"`
	} `toml:"auth"`

	Display struct {
		Timezone        string            `toml:"timezone" validate:"required"`
		TimestampFormat string            `toml:"timestamp_format" validate:"required"`
		Columns         []string          `toml:"columns"`
		Labels          map[string]string `toml:"labels"`
	} `toml:"display"`

	Export struct {
		Filename string   `toml:"filename" validate:"required,excludesall=/"`
		Columns  []string `toml:"columns"`
	} `toml:"export"`

	Questions []QuestionConfig `toml:"questions" validate:"max=3"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return ParseConfig(path, data)
}

// ParseConfig decodes, fills defaults and validates a config. A missing
// backend url or key is reported as source.ErrNotConfigured.
func ParseConfig(path string, data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w",
			path,
			err,
		)
	}

	config.applyDefaults()

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if config.Backend.URL == "" {
		return nil, fmt.Errorf("configuration error: backend url is missing: %w", source.ErrNotConfigured)
	}
	if DetectBackend(config.Backend.URL) == source.BackendREST && config.Backend.Key == "" {
		return nil, fmt.Errorf("configuration error: backend key is missing: %w", source.ErrNotConfigured)
	}

	if config.Auth.Password == "" {
		logger.Info.Printf("WARNING: auth.password is not set, falling back to the default password")
		config.Auth.Password = DefaultPassword
	}

	logger.Debug.Printf("Loaded display config: %+v", config.Display)

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Backend.Table == "" {
		c.Backend.Table = source.DefaultTable
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = DefaultCookieName
	}
	if c.Auth.SessionKeyTemplate == "" {
		c.Auth.SessionKeyTemplate = DefaultSessionKeyTemplate
	}
	if c.Display.Timezone == "" {
		c.Display.Timezone = table.DefaultTimezone
	}
	if c.Display.TimestampFormat == "" {
		c.Display.TimestampFormat = table.DefaultTimestampFormat
	}
	if c.Export.Filename == "" {
		c.Export.Filename = export.DefaultFilename
	}
	for len(c.Questions) < models.QuestionCount {
		c.Questions = append(c.Questions, QuestionConfig{})
	}
	for i := range c.Questions {
		if c.Questions[i].Label == "" {
			c.Questions[i].Label = fmt.Sprintf("Q%d", i+1)
		}
	}
}

func (c *Config) BackendTimeout() time.Duration {
	if c.Backend.TimeoutSeconds == 0 {
		return DefaultBackendTimeout
	}
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTLSeconds == 0 {
		return snapshot.DefaultTTL
	}
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	if c.Auth.SessionTTLSeconds == 0 {
		return DefaultSessionTTL
	}
	return time.Duration(c.Auth.SessionTTLSeconds) * time.Second
}

// QuestionLabels returns one display label per question.
func (c *Config) QuestionLabels() []string {
	labels := make([]string, 0, models.QuestionCount)
	for i := 0; i < models.QuestionCount; i++ {
		labels = append(labels, c.Questions[i].Label)
	}
	return labels
}
