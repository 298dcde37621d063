package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/ini.v1"

	"github.com/rescale/twitch-live-opener/internal/constants"
	"github.com/rescale/twitch-live-opener/internal/models"
)

// Configuration keys. Each key also accepts the TWITCH_-prefixed alias
// (TWITCH_CLIENT_ID, ...). The unprefixed key is checked first.
const (
	KeyClientID      = "CLIENT_ID"
	KeyClientSecret  = "CLIENT_SECRET"
	KeyStreamerLogin = "STREAMER_LOGIN"
	KeyPollInterval  = "POLL_INTERVAL"

	aliasPrefix = "TWITCH_"
)

const maxPollSeconds = math.MaxInt64 / int64(time.Second)

// Config holds the watcher settings, loaded once at startup.
//
// Sources, highest priority first:
//  1. Process environment
//  2. Dotfile (KEY=VALUE lines, see EnvFileSearchPaths)
//  3. Defaults (POLL_INTERVAL only)
type Config struct {
	ClientID      string
	ClientSecret  string
	StreamerLogin string
	PollInterval  time.Duration

	// EnvFile is the dotfile that was read ("" if none was found)
	EnvFile string
}

// Credentials returns the client credentials used for the token exchange.
func (c *Config) Credentials() models.Credentials {
	return models.Credentials{ClientID: c.ClientID, ClientSecret: c.ClientSecret}
}

// Target returns the channel being watched.
func (c *Config) Target() models.WatchTarget {
	return models.NewWatchTarget(c.StreamerLogin)
}

// ConfigError is a fatal startup configuration problem.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadOptions controls where Load reads from.
type LoadOptions struct {
	// EnvFile is an explicit dotfile path. It must exist when set.
	// Empty means search EnvFileSearchPaths and skip if none exists.
	EnvFile string

	// LookupEnv reads the process environment (default: os.LookupEnv)
	LookupEnv func(key string) (string, bool)
}

// Load reads and validates the configuration.
// All failures are returned as *ConfigError.
func Load(opts LoadOptions) (*Config, error) {
	lookupEnv := opts.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	if opts.EnvFile != "" {
		if _, err := os.Stat(opts.EnvFile); err != nil {
			return nil, &ConfigError{Msg: "env file not found", Err: err}
		}
	}

	envFile := ResolveEnvFile(opts.EnvFile)
	fileValues := map[string]string{}
	if envFile != "" {
		var err error
		fileValues, err = ReadEnvFile(envFile)
		if err != nil {
			return nil, &ConfigError{Msg: "invalid env file " + envFile, Err: err}
		}
	}

	get := func(key string) string {
		names := []string{key, aliasPrefix + key}
		for _, name := range names {
			if v, ok := lookupEnv(name); ok {
				if v = strings.TrimSpace(v); v != "" {
					return v
				}
			}
		}
		for _, name := range names {
			if v := strings.TrimSpace(fileValues[name]); v != "" {
				return v
			}
		}
		return ""
	}

	cfg := &Config{
		ClientID:      get(KeyClientID),
		ClientSecret:  get(KeyClientSecret),
		StreamerLogin: strings.ToLower(get(KeyStreamerLogin)),
		PollInterval:  constants.DefaultPollInterval,
		EnvFile:       envFile,
	}

	if raw := get(KeyPollInterval); raw != "" {
		seconds, err := strconv.ParseInt(raw, 10, 64)
		// Larger values would overflow time.Duration.
		if err != nil || seconds <= 0 || seconds > maxPollSeconds {
			return nil, &ConfigError{Msg: "invalid poll interval"}
		}
		cfg.PollInterval = time.Duration(seconds) * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every required field is set.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{KeyClientID, c.ClientID},
		{KeyClientSecret, c.ClientSecret},
		{KeyStreamerLogin, c.StreamerLogin},
	}
	for _, r := range required {
		if r.value == "" {
			return &ConfigError{Msg: "missing " + r.key}
		}
	}
	if c.PollInterval <= 0 {
		return &ConfigError{Msg: "invalid poll interval"}
	}
	return nil
}

// ReadEnvFile parses a KEY=VALUE dotfile. Lines starting with # are comments,
// surrounding quotes are stripped and an optional "export " prefix is ignored.
// Only keys outside any [section] are returned.
func ReadEnvFile(path string) (map[string]string, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		SpaceBeforeInlineComment: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	values := make(map[string]string)
	for _, key := range f.Section(ini.DefaultSection).Keys() {
		name := strings.TrimSpace(strings.TrimPrefix(key.Name(), "export "))
		values[name] = key.String()
	}
	return values, nil
}
