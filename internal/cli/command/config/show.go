package config

import (
	"bytes"
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/Tomas-vilte/semrel/internal/config"
	"github.com/Tomas-vilte/semrel/internal/i18n"
	"github.com/Tomas-vilte/semrel/internal/ui"
	"github.com/urfave/cli/v3"
)

const secretMask = "********"

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:   "show",
		Usage:  t.GetMessage("config_show_usage", 0, nil),
		Action: showConfigAction(cfg),
	}
}

func showConfigAction(cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(redact(*cfg)); err != nil {
			return err
		}

		out := ui.Writer(command)
		fmt.Fprintf(out, "# %s\n", cfg.PathFile)
		fmt.Fprint(out, buf.String())
		return nil
	}
}

// redact returns a copy of cfg with every secret replaced by a mask.
func redact(cfg config.Config) config.Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return secretMask
	}
	cfg.Repository.Token = mask(cfg.Repository.Token)
	cfg.Notifier.Mattermost.Token = mask(cfg.Notifier.Mattermost.Token)
	cfg.AI.GeminiAPIKey = mask(cfg.AI.GeminiAPIKey)
	return cfg
}
