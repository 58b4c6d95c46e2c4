package config

import (
	"testing"

	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const path = "/home/dev/.config/semrel/config.toml"

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvGitHubToken, "")
	t.Setenv(EnvMattermostToken, "")
	t.Setenv(EnvGeminiAPIKey, "")
}

func TestLoadConfig(t *testing.T) {
	t.Run("Should return defaults when the file does not exist", func(t *testing.T) {
		clearEnv(t)
		fs := afero.NewMemMapFs()

		cfg, err := LoadConfig(fs, path)
		require.NoError(t, err)

		assert.Equal(t, LangEN, cfg.Language)
		assert.Equal(t, "main", cfg.Repository.Branch)
		assert.True(t, cfg.Changelog.Enabled)
		assert.Equal(t, "changelogs/CHANGELOG.md", cfg.Changelog.Path)
		assert.False(t, cfg.Notifier.Enabled)
		assert.Equal(t, ModelGeminiV25Flash, cfg.AI.Model)
		assert.Equal(t, path, cfg.PathFile)
	})

	t.Run("Should decode every section", func(t *testing.T) {
		clearEnv(t)
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, path, []byte(`
language = "es"
rules_file = "release_rules.toml"

[repository]
owner = "acme"
name = "widgets"
branch = "trunk"

[changelog]
enabled = true
path = "CHANGELOG.md"

[notifier]
enabled = true
message = "Nueva version"

[notifier.mattermost]
url = "https://chat.acme.io"
channel_id = "abc123"

[ai]
enabled = true
model = "gemini-2.5-pro"
`), 0644))

		cfg, err := LoadConfig(fs, path)
		require.NoError(t, err)

		assert.Equal(t, LangES, cfg.Language)
		assert.Equal(t, "release_rules.toml", cfg.RulesFile)
		assert.Equal(t, RepositoryConfig{Owner: "acme", Name: "widgets", Branch: "trunk"}, cfg.Repository)
		assert.Equal(t, "CHANGELOG.md", cfg.Changelog.Path)
		assert.Equal(t, "Nueva version", cfg.Notifier.Message)
		assert.Equal(t, "abc123", cfg.Notifier.Mattermost.ChannelID)
		assert.Equal(t, ModelGeminiV25Pro, cfg.AI.Model)
	})

	t.Run("Should let the environment override secrets", func(t *testing.T) {
		t.Setenv(EnvGitHubToken, "ghp_env")
		t.Setenv(EnvMattermostToken, "mm_env")
		t.Setenv(EnvGeminiAPIKey, "gemini_env")

		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, path, []byte(`
[repository]
token = "ghp_file"
`), 0644))

		cfg, err := LoadConfig(fs, path)
		require.NoError(t, err)

		assert.Equal(t, "ghp_env", cfg.Repository.Token)
		assert.Equal(t, "mm_env", cfg.Notifier.Mattermost.Token)
		assert.Equal(t, "gemini_env", cfg.AI.GeminiAPIKey)
	})

	t.Run("Should derive owner and name from the repository URL", func(t *testing.T) {
		clearEnv(t)
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, path, []byte(`
[repository]
url = "git@github.com:acme/widgets.git"
`), 0644))

		cfg, err := LoadConfig(fs, path)
		require.NoError(t, err)

		assert.Equal(t, "acme", cfg.Repository.Owner)
		assert.Equal(t, "widgets", cfg.Repository.Name)
	})

	t.Run("Should fail on malformed TOML", func(t *testing.T) {
		clearEnv(t)
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, path, []byte(`language = `), 0644))

		_, err := LoadConfig(fs, path)
		assert.ErrorIs(t, err, domainErrors.ErrConfigRead)
	})

	t.Run("Should fail validation for an unsupported language", func(t *testing.T) {
		clearEnv(t)
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, path, []byte(`language = "fr"`), 0644))

		_, err := LoadConfig(fs, path)
		assert.ErrorIs(t, err, domainErrors.ErrConfigInvalid)
		assert.Contains(t, err.Error(), "field=language")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"empty branch", func(c *Config) { c.Repository.Branch = "" }, "repository.branch"},
		{"changelog without path", func(c *Config) { c.Changelog.Path = "" }, "changelog.path"},
		{"disabled changelog ignores path", func(c *Config) {
			c.Changelog.Enabled = false
			c.Changelog.Path = ""
		}, ""},
		{"notifier without url", func(c *Config) {
			c.Notifier.Enabled = true
			c.Notifier.Mattermost.ChannelID = "c"
		}, "notifier.mattermost.url"},
		{"notifier without channel", func(c *Config) {
			c.Notifier.Enabled = true
			c.Notifier.Mattermost.URL = "https://chat"
		}, "notifier.mattermost.channel_id"},
		{"ai with unknown model", func(c *Config) {
			c.AI.Enabled = true
			c.AI.Model = "gpt-4o"
		}, "ai.model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domainErrors.ErrConfigInvalid)
			assert.Contains(t, err.Error(), "field="+tt.wantErr)
		})
	}
}

func TestSaveConfig(t *testing.T) {
	clearEnv(t)

	t.Run("Should persist and reload the same values", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		cfg := Default()
		cfg.PathFile = path
		cfg.Repository.Owner = "acme"
		cfg.Repository.Name = "widgets"
		cfg.Notifier.Enabled = true
		cfg.Notifier.Mattermost.URL = "https://chat.acme.io"
		cfg.Notifier.Mattermost.ChannelID = "abc"

		require.NoError(t, SaveConfig(fs, cfg))

		loaded, err := LoadConfig(fs, path)
		require.NoError(t, err)
		assert.Equal(t, cfg, loaded)
	})

	t.Run("Should refuse an invalid configuration", func(t *testing.T) {
		cfg := Default()
		cfg.PathFile = path
		cfg.Language = ""

		err := SaveConfig(afero.NewMemMapFs(), cfg)
		assert.ErrorIs(t, err, domainErrors.ErrConfigInvalid)
	})

	t.Run("Should require a destination path", func(t *testing.T) {
		err := SaveConfig(afero.NewMemMapFs(), Default())
		assert.ErrorIs(t, err, domainErrors.ErrConfigInvalid)
	})
}

func TestParseRepositoryURL(t *testing.T) {
	tests := []struct {
		url         string
		owner, name string
		ok          bool
	}{
		{"git@github.com:acme/widgets.git", "acme", "widgets", true},
		{"https://github.com/acme/widgets.git", "acme", "widgets", true},
		{"https://github.com/acme/widgets", "acme", "widgets", true},
		{"not a url", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			owner, name, ok := ParseRepositoryURL(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestModels(t *testing.T) {
	assert.Equal(t, ModelGeminiV25Flash, DefaultModelForAI(AIGemini))
	assert.Empty(t, DefaultModelForAI(AI("openai")))
	assert.True(t, IsSupportedModel(AIGemini, ModelGeminiV25Pro))
	assert.False(t, IsSupportedModel(AIGemini, "gpt-4o"))
	assert.True(t, IsSupportedLanguage(LangES))
	assert.False(t, IsSupportedLanguage("pt"))
}
