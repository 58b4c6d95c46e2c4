package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tomas-vilte/semrel/internal/config"
	"github.com/Tomas-vilte/semrel/internal/i18n"
	"github.com/Tomas-vilte/semrel/internal/ui"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newInitCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: t.GetMessage("config_init_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   t.GetMessage("flag_force", 0, nil),
			},
		},
		Action: initConfigAction(c.fs, cfg, t),
	}
}

// initConfigAction writes the defaults to the path the current configuration
// was loaded from. Secrets are never written, they come from the environment.
func initConfigAction(fs afero.Fs, cfg *config.Config, t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		path := cfg.PathFile
		if path == "" {
			path = config.DefaultPath()
		}

		exists, err := afero.Exists(fs, path)
		if err != nil {
			return err
		}
		if exists && !command.Bool("force") {
			return errors.New(t.GetMessage("config_exists", 0, map[string]interface{}{"Path": path}))
		}

		fresh := config.Default()
		fresh.Language = cfg.Language
		fresh.PathFile = path
		if err := config.SaveConfig(fs, fresh); err != nil {
			return err
		}

		fmt.Fprintln(ui.Writer(command), t.GetMessage("config_saved", 0, map[string]interface{}{"Path": path}))
		return nil
	}
}
