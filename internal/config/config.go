package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Tomas-vilte/semrel/internal/changelog"
	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/Tomas-vilte/semrel/internal/regex"
	"github.com/adrg/xdg"
	"github.com/spf13/afero"
)

type (
	Config struct {
		Language  string `toml:"language"`
		RulesFile string `toml:"rules_file,omitempty"`

		Repository RepositoryConfig `toml:"repository"`
		Changelog  ChangelogConfig  `toml:"changelog"`
		Notifier   NotifierConfig   `toml:"notifier"`
		AI         AIConfig         `toml:"ai"`

		PathFile string `toml:"-"`
	}

	RepositoryConfig struct {
		// URL is an optional clone URL; owner and name are derived from it
		// when they are not set explicitly.
		URL    string `toml:"url,omitempty"`
		Owner  string `toml:"owner"`
		Name   string `toml:"name"`
		Token  string `toml:"token,omitempty"`
		Branch string `toml:"branch"`
	}

	ChangelogConfig struct {
		Enabled bool   `toml:"enabled"`
		Path    string `toml:"path"`
		// Commit records the updated file as "Release <tag>" in the local
		// repository, Push then pushes that commit.
		Commit bool `toml:"commit"`
		Push   bool `toml:"push"`
	}

	NotifierConfig struct {
		Enabled    bool             `toml:"enabled"`
		Message    string           `toml:"message"`
		Mattermost MattermostConfig `toml:"mattermost"`
	}

	MattermostConfig struct {
		URL       string `toml:"url"`
		ChannelID string `toml:"channel_id"`
		Token     string `toml:"token,omitempty"`
	}

	AIConfig struct {
		Enabled      bool   `toml:"enabled"`
		GeminiAPIKey string `toml:"gemini_api_key,omitempty"`
		Model        Model  `toml:"model"`
	}
)

const (
	defaultBranch        = "main"
	defaultNotifyMessage = "A new release is available"
	configDirName        = "semrel"
	configFileName       = "config.toml"

	EnvConfigPath      = "SEMREL_CONFIG"
	EnvGitHubToken     = "GITHUB_TOKEN"
	EnvMattermostToken = "MATTERMOST_TOKEN"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
)

// DefaultPath is $XDG_CONFIG_HOME/semrel/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, configDirName, configFileName)
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Language: LangEN,
		Repository: RepositoryConfig{
			Branch: defaultBranch,
		},
		Changelog: ChangelogConfig{
			Enabled: true,
			Path:    changelog.DefaultPath,
		},
		Notifier: NotifierConfig{
			Message: defaultNotifyMessage,
		},
		AI: AIConfig{
			Model: DefaultModelForAI(AIGemini),
		},
	}
}

// LoadConfig reads path from fs, or DefaultPath when path is empty. A missing
// file is not an error and yields Default. Secrets from the environment take
// precedence over the file.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	cfg.PathFile = path

	data, err := afero.ReadFile(fs, path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, domainErrors.ErrConfigRead.WithError(err).WithContext("path", path)
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, domainErrors.ErrConfigRead.WithError(err).WithContext("path", path)
		}
	}

	cfg.applyEnv()
	cfg.Repository.fillFromURL()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig writes cfg to cfg.PathFile. Secrets loaded from the environment
// are written too, so callers should clear them first when that matters.
func SaveConfig(fs afero.Fs, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.PathFile == "" {
		return domainErrors.ErrConfigInvalid.WithContext("field", "path_file")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return domainErrors.ErrConfigInvalid.WithError(err)
	}

	if err := fs.MkdirAll(filepath.Dir(cfg.PathFile), 0755); err != nil {
		return domainErrors.ErrConfigRead.WithError(err).WithContext("path", cfg.PathFile)
	}

	return afero.WriteFile(fs, cfg.PathFile, buf.Bytes(), 0600)
}

// Validate checks the fields required by the enabled features.
func (c *Config) Validate() error {
	if !IsSupportedLanguage(c.Language) {
		return invalid("language", c.Language)
	}
	if c.Repository.Branch == "" {
		return invalid("repository.branch", "")
	}
	if c.Changelog.Enabled && c.Changelog.Path == "" {
		return invalid("changelog.path", "")
	}
	if c.Notifier.Enabled {
		if c.Notifier.Mattermost.URL == "" {
			return invalid("notifier.mattermost.url", "")
		}
		if c.Notifier.Mattermost.ChannelID == "" {
			return invalid("notifier.mattermost.channel_id", "")
		}
	}
	if c.AI.Enabled && !IsSupportedModel(AIGemini, c.AI.Model) {
		return invalid("ai.model", string(c.AI.Model))
	}
	return nil
}

func invalid(field, value string) error {
	err := domainErrors.ErrConfigInvalid.WithContext("field", field)
	if value != "" {
		err = err.WithContext("value", value)
	}
	return err
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvGitHubToken); v != "" {
		c.Repository.Token = v
	}
	if v := os.Getenv(EnvMattermostToken); v != "" {
		c.Notifier.Mattermost.Token = v
	}
	if v := os.Getenv(EnvGeminiAPIKey); v != "" {
		c.AI.GeminiAPIKey = v
	}
}

func (r *RepositoryConfig) fillFromURL() {
	if r.URL == "" || (r.Owner != "" && r.Name != "") {
		return
	}
	owner, name, ok := ParseRepositoryURL(r.URL)
	if !ok {
		return
	}
	if r.Owner == "" {
		r.Owner = owner
	}
	if r.Name == "" {
		r.Name = name
	}
}

// ParseRepositoryURL extracts owner and name from an SSH or HTTPS clone URL.
func ParseRepositoryURL(url string) (owner, name string, ok bool) {
	url = strings.TrimSpace(url)
	if m := regex.SSHRepo.FindStringSubmatch(url); m != nil {
		return m[2], m[3], true
	}
	if m := regex.HTTPSRepo.FindStringSubmatch(url); m != nil {
		return m[2], m[3], true
	}
	return "", "", false
}
