package config

import (

	"github.com/Tomas-vilte/semrel/internal/config"
	"github.com/Tomas-vilte/semrel/internal/i18n"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

type ConfigCommandFactory struct {
	fs afero.Fs
}

func NewConfigCommandFactory(fs afero.Fs) *ConfigCommandFactory {
	return &ConfigCommandFactory{fs: fs}
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   t.GetMessage("config_command_usage", 0, nil),
		Commands: []*cli.Command{
			c.newInitCommand(t, cfg),
			c.newShowCommand(t, cfg),
		},
	}
}

