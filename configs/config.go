package configs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config struct
type Config struct {
	App      `mapstructure:"app"`
	Postgres `mapstructure:"postgres"`
	Backend  `mapstructure:"backend"`
	Telegram `mapstructure:"telegram"`
	Line     `mapstructure:"line"`
	Market   `mapstructure:"market"`
	LLM      `mapstructure:"llm"`
	Bot      `mapstructure:"bot"`
}

// App struct
type App struct {
	Debug bool   `mapstructure:"debug"`
	Env   string `mapstructure:"env"`
	Port  string `mapstructure:"port"`
}

// Postgres struct
type Postgres struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	DbName          string        `mapstructure:"database"`
	SSLMode         bool          `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// Backend struct - where the bot reaches the web API
type Backend struct {
	BaseURL string `mapstructure:"base_url"`
	// ExternalURL is the public web app address put into account and auth links
	ExternalURL string        `mapstructure:"external_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Telegram struct
type Telegram struct {
	Token       string `mapstructure:"token"`
	PollTimeout int    `mapstructure:"poll_timeout"` // seconds
}

// Line struct
type Line struct {
	Enabled       bool   `mapstructure:"enabled"`
	ChannelSecret string `mapstructure:"channel_secret"`
	ChannelToken  string `mapstructure:"channel_token"`
	Port          string `mapstructure:"port"`
}

// Market struct - Yandex Market partner API
type Market struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LLM struct - OpenAI-compatible chat completion server
type LLM struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	Temperature    float64       `mapstructure:"temperature"`
	MaxReplyLength int           `mapstructure:"max_reply_length"`
	SystemPrompt   string        `mapstructure:"system_prompt"`
}

// Bot struct
type Bot struct {
	WelcomeImageURL string `mapstructure:"welcome_image_url"`
}

var config Config

// InitViper func - Loads .env files, then config.yaml from path, then environment
// overrides (postgres.host is read from POSTGRES_HOST). env selects .env.<env>.
func InitViper(path, env string) error {
	loadDotEnv(env)
	return getConfig(viper.GetViper(), path, env)
}

// GetViper func
func GetViper() *Config {
	return &config
}

func loadDotEnv(env string) {
	files := []string{".env"}
	if env != "" {
		files = append([]string{".env." + env}, files...)
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		// existing variables win over file values
		if err := godotenv.Load(f); err != nil {
			logrus.Warnf("Failed to load %s: %v", f, err)
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.debug", false)
	v.SetDefault("app.env", "")
	v.SetDefault("app.port", "8080")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.username", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.database", "")
	v.SetDefault("postgres.sslmode", false)
	v.SetDefault("postgres.max_open_conns", 20)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", time.Hour)

	v.SetDefault("backend.base_url", "http://localhost:8080")
	v.SetDefault("backend.external_url", "")
	v.SetDefault("backend.timeout", 60*time.Second)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.poll_timeout", 30)

	v.SetDefault("line.enabled", false)
	v.SetDefault("line.channel_secret", "")
	v.SetDefault("line.channel_token", "")
	v.SetDefault("line.port", "8081")

	v.SetDefault("market.base_url", "https://api.partner.market.yandex.ru")
	v.SetDefault("market.timeout", 30*time.Second)

	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", 20*time.Second)
	v.SetDefault("llm.max_tokens", 280)
	v.SetDefault("llm.temperature", 0.8)
	v.SetDefault("llm.max_reply_length", 280)
	v.SetDefault("llm.system_prompt", "")

	v.SetDefault("bot.welcome_image_url", "")
}

func getConfig(v *viper.Viper, path, env string) error {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case errors.As(err, &notFound):
		logrus.Warnf("No config file in %s, using defaults and environment", path)
	case err != nil:
		return fmt.Errorf("read config: %w", err)
	default:
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			logrus.Println("Config file has changed: ", e.Name)
		})
	}

	if err := v.Unmarshal(&config); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if env != "" {
		config.App.Env = env
	}
	return nil
}
