package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tomas-vilte/semrel/internal/analyzer"
	"github.com/Tomas-vilte/semrel/internal/cli/completion_helper"
	cfg "github.com/Tomas-vilte/semrel/internal/config"
	"github.com/Tomas-vilte/semrel/internal/i18n"
	"github.com/Tomas-vilte/semrel/internal/logger"
	engine "github.com/Tomas-vilte/semrel/internal/rules"
	"github.com/Tomas-vilte/semrel/internal/ui"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

type RulesCommandFactory struct {
	fs afero.Fs
}

func NewRulesCommandFactory(fs afero.Fs) *RulesCommandFactory {
	return &RulesCommandFactory{fs: fs}
}

func (r *RulesCommandFactory) CreateCommand(t *i18n.Translations, config *cfg.Config) *cli.Command {
	defaultPath := ""
	if config != nil {
		defaultPath = config.RulesFile
	}

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "rules",
			Value: defaultPath,
			Usage: t.GetMessage("flag_rules", 0, nil),
		},
	}

	return &cli.Command{
		Name:  "rules",
		Usage: t.GetMessage("rules_command_usage", 0, nil),
		Commands: []*cli.Command{
			{
				Name:          "show",
				Usage:         t.GetMessage("rules_show_usage", 0, nil),
				Flags:         flags,
				ShellComplete: completion_helper.DefaultFlagComplete,
				Action:        showRulesAction(r.fs),
			},
			{
				Name:          "check",
				Usage:         t.GetMessage("rules_check_usage", 0, nil),
				ArgsUsage:     "<message>...",
				Flags:         flags,
				ShellComplete: completion_helper.DefaultFlagComplete,
				Action:        checkRulesAction(r.fs, t),
			},
		},
	}
}

func load(ctx context.Context, fs afero.Fs, cmd *cli.Command) (*engine.RuleSet, error) {
	path := cmd.String("rules")
	logger.Debug(ctx, "loading release rules", "path", path)
	return engine.LoadOrDefault(fs, path)
}

func showRulesAction(fs afero.Fs) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		rs, err := load(ctx, fs, cmd)
		if err != nil {
			return err
		}

		doc, err := rs.Document().Encode()
		if err != nil {
			return err
		}
		fmt.Fprint(ui.Writer(cmd), doc)
		return nil
	}
}

func checkRulesAction(fs afero.Fs, trans *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		messages := cmd.Args().Slice()
		if len(messages) == 0 {
			return errors.New(trans.GetMessage("rules_check_missing_args", 0, nil))
		}

		rs, err := load(ctx, fs, cmd)
		if err != nil {
			return err
		}

		out := ui.Writer(cmd)
		for _, message := range messages {
			level, ok, err := analyzer.Classify(rs, message)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(out, "%s\t%s\n", message, trans.GetMessage("rules_check_no_match", 0, nil))
				continue
			}
			fmt.Fprintf(out, "%s\t%s\n", message, trans.GetMessage("rules_check_match", 0, map[string]interface{}{
				"Level": level.String(),
			}))
		}
		return nil
	}
}

