package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/qnkhuat/quoriterm/pkg/gui"
)

type Config struct {
	LogLevel string         `yaml:"log-level" env:"QUORITERM_LOG_LEVEL" env-default:"info"`
	LogFile  string         `yaml:"log-file" env:"QUORITERM_LOG_FILE" env-default:"./quoriterm.log"`
	Server   Server         `yaml:"server"`
	Game     Game           `yaml:"game"`
	Sync     Sync           `yaml:"sync"`
	Theme    string         `yaml:"theme" env:"QUORITERM_THEME" env-default:"basic"`
	Themes   []gui.ThemeHex `yaml:"themes"`
	SSH      SSH            `yaml:"ssh"`
}

type Server struct {
	URL              string        `yaml:"url" env:"QUORITERM_SERVER_URL" env-default:"http://localhost:8000"`
	CSRFToken        string        `yaml:"csrf-token" env:"QUORITERM_CSRF_TOKEN"`
	Cookie           string        `yaml:"cookie" env:"QUORITERM_COOKIE"`
	ShortOrientation bool          `yaml:"short-orientation" env:"QUORITERM_SHORT_ORIENTATION" env-default:"false"`
	RequestTimeout   time.Duration `yaml:"request-timeout" env:"QUORITERM_REQUEST_TIMEOUT" env-default:"0s"`
}

type Game struct {
	ID string `yaml:"id" env:"QUORITERM_GAME_ID"`
	// InitialState is a path to the initial state document. When empty the
	// client reads it from the server once at startup.
	InitialState string `yaml:"initial-state" env:"QUORITERM_INITIAL_STATE"`
}

type Sync struct {
	PollInterval   time.Duration `yaml:"poll-interval" env:"QUORITERM_POLL_INTERVAL" env-default:"3s"`
	StopOnTerminal bool          `yaml:"stop-on-terminal" env:"QUORITERM_STOP_ON_TERMINAL" env-default:"false"`
	MessageTTL     time.Duration `yaml:"message-ttl" env:"QUORITERM_MESSAGE_TTL" env-default:"5s"`
}

type SSH struct {
	Addr         string        `yaml:"addr" env:"QUORITERM_SSH_ADDR" env-default:":2222"`
	HostKey      string        `yaml:"host-key" env:"QUORITERM_SSH_HOST_KEY"`
	IdleTimeout  time.Duration `yaml:"idle-timeout" env:"QUORITERM_SSH_IDLE_TIMEOUT" env-default:"5m"`
	ClientPath   string        `yaml:"client-path" env:"QUORITERM_SSH_CLIENT_PATH" env-default:"quoriterm"`
	ClientConfig string        `yaml:"client-config" env:"QUORITERM_SSH_CLIENT_CONFIG"`
}

// Load reads the YAML file at path, then applies environment overrides and
// defaults. An empty path reads the environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(cfg)
	} else {
		err = cleanenv.ReadConfig(path, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	return cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// ValidateClient checks the settings the game client cannot run without.
func (c *Config) ValidateClient() error {
	if c.Game.ID == "" {
		return errors.New("game id is required")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server url: %q", c.Server.URL)
	}
	if c.Sync.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	if c.Sync.MessageTTL <= 0 {
		return errors.New("message ttl must be positive")
	}
	if c.Server.RequestTimeout < 0 {
		return errors.New("request timeout must not be negative")
	}
	return nil
}

// ResolveTheme returns the configured theme, looking first at themes defined
// in the config file.
func (c *Config) ResolveTheme() (gui.Theme, error) {
	if t, err := gui.ImportThemes(c.Theme, c.Themes); err == nil {
		return t, nil
	}
	return gui.BuiltinTheme(c.Theme)
}
