// Package config loads the server configuration from an optional YAML file
// and PROMPTGEN_* environment variables.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"github.com/goccy/go-yaml"
)

//go:embed schema.cue
var schemaSource string

const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Account   AccountConfig   `yaml:"account"`
	Chat      ChatConfig      `yaml:"chat"`
	Generator GeneratorConfig `yaml:"generator"`
}

type ServerConfig struct {
	Transport string `yaml:"transport"`
	Address   string `yaml:"address"`
	LogFile   string `yaml:"log_file"`
}

type StorageConfig struct {
	// Path of the SQLite file backing the key-value store.
	Path string `yaml:"path"`
}

type AccountConfig struct {
	DailyLimit     int           `yaml:"daily_limit"`
	AuthDelay      time.Duration `yaml:"auth_delay"`
	SubscribeDelay time.Duration `yaml:"subscribe_delay"`
}

type ChatConfig struct {
	Model      string        `yaml:"model"`
	Greeting   string        `yaml:"greeting"`
	ReplyDelay time.Duration `yaml:"reply_delay"`
}

type GeneratorConfig struct {
	DefaultModel  string        `yaml:"default_model"`
	ResponseDelay time.Duration `yaml:"response_delay"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Transport: TransportStdio,
			Address:   ":8080",
		},
		Storage: StorageConfig{
			Path: "promptgen.db",
		},
		Account: AccountConfig{
			DailyLimit:     5,
			AuthDelay:      time.Second,
			SubscribeDelay: 1500 * time.Millisecond,
		},
		Chat: ChatConfig{
			Model:      "open-mistral-8x7b",
			Greeting:   "Hello! How can I assist you today?",
			ReplyDelay: 1500 * time.Millisecond,
		},
		Generator: GeneratorConfig{
			DefaultModel:  "GPT-4o",
			ResponseDelay: 2 * time.Second,
		},
	}
}

// Load reads path (when non-empty) over the defaults, then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := Parse(path, data, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse checks data against the embedded CUE schema and decodes it into cfg.
// Keys absent from data leave cfg untouched.
func Parse(filename string, data []byte, cfg *Config) error {
	if err := checkSchema(filename, data); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode config %s: %w", filename, err)
	}
	return nil
}

func checkSchema(filename string, data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue")).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("invalid config schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", filename, err)
	}
	value := schema.Unify(ctx.BuildFile(file))
	if err := value.Validate(); err != nil {
		return fmt.Errorf("config %s does not match schema: %s", filename, strings.TrimSpace(errors.Details(err, nil)))
	}
	return nil
}

// Validate enforces constraints that hold after env overrides.
func (c Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportSSE, TransportHTTP:
	default:
		return fmt.Errorf("unsupported transport %q (want stdio, sse or http)", c.Server.Transport)
	}
	if c.Server.Transport != TransportStdio && c.Server.Address == "" {
		return fmt.Errorf("server.address is required for the %s transport", c.Server.Transport)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Account.DailyLimit <= 0 {
		return fmt.Errorf("account.daily_limit must be positive, got %d", c.Account.DailyLimit)
	}
	for name, d := range map[string]time.Duration{
		"account.auth_delay":       c.Account.AuthDelay,
		"account.subscribe_delay":  c.Account.SubscribeDelay,
		"chat.reply_delay":         c.Chat.ReplyDelay,
		"generator.response_delay": c.Generator.ResponseDelay,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

func applyEnv(c *Config) error {
	c.Server.Transport = envOrDefault("PROMPTGEN_TRANSPORT", c.Server.Transport)
	c.Server.Address = envOrDefault("PROMPTGEN_ADDRESS", c.Server.Address)
	c.Server.LogFile = envOrDefault("PROMPTGEN_LOG_FILE", c.Server.LogFile)
	c.Storage.Path = envOrDefault("PROMPTGEN_DB_PATH", c.Storage.Path)
	c.Chat.Model = envOrDefault("PROMPTGEN_CHAT_MODEL", c.Chat.Model)
	c.Generator.DefaultModel = envOrDefault("PROMPTGEN_DEFAULT_MODEL", c.Generator.DefaultModel)

	var err error
	if c.Account.DailyLimit, err = envIntOrDefault("PROMPTGEN_DAILY_LIMIT", c.Account.DailyLimit); err != nil {
		return err
	}
	if c.Account.AuthDelay, err = envDurationOrDefault("PROMPTGEN_AUTH_DELAY", c.Account.AuthDelay); err != nil {
		return err
	}
	if c.Account.SubscribeDelay, err = envDurationOrDefault("PROMPTGEN_SUBSCRIBE_DELAY", c.Account.SubscribeDelay); err != nil {
		return err
	}
	if c.Chat.ReplyDelay, err = envDurationOrDefault("PROMPTGEN_REPLY_DELAY", c.Chat.ReplyDelay); err != nil {
		return err
	}
	if c.Generator.ResponseDelay, err = envDurationOrDefault("PROMPTGEN_RESPONSE_DELAY", c.Generator.ResponseDelay); err != nil {
		return err
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func envDurationOrDefault(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
