package release

import (
	"context"
	"fmt"

	"github.com/Tomas-vilte/semrel/internal/cli/completion_helper"
	"github.com/Tomas-vilte/semrel/internal/i18n"
	"github.com/Tomas-vilte/semrel/internal/models"
	"github.com/Tomas-vilte/semrel/internal/services"
	"github.com/Tomas-vilte/semrel/internal/ui"
	"github.com/urfave/cli/v3"
)

func (r *ReleaseCommandFactory) newPublishCommand(trans *i18n.Translations) *cli.Command {
	flags := append(engineFlags(trans),
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"n"},
			Usage:   trans.GetMessage("flag_dry_run", 0, nil),
		},
		&cli.BoolFlag{
			Name:    "draft",
			Aliases: []string{"d"},
			Usage:   trans.GetMessage("flag_draft", 0, nil),
		},
	)

	return &cli.Command{
		Name:          "publish",
		Aliases:       []string{"pub"},
		Usage:         trans.GetMessage("release_publish_usage", 0, nil),
		Flags:         flags,
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        r.withService(trans, publishReleaseAction),
	}
}

func publishReleaseAction(releaseService releaseService, trans *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		out := ui.Writer(cmd)

		var release *models.Release
		err := ui.WithSpinner(out, trans.GetMessage("spinner_analyzing", 0, nil), func() error {
			var err error
			release, err = releaseService.Analyze(ctx)
			return err
		})
		if err != nil {
			return wrapError(trans, "error_analyzing", err)
		}

		if !release.HasRelease() {
			printCounts(out, trans, release)
			ui.PrintInfo(out, trans.GetMessage("preview_no_release", 0, nil))
			return nil
		}

		var result *services.PublishResult
		err = ui.WithSpinner(out, trans.GetMessage("spinner_publishing", 0, nil), func() error {
			var err error
			result, err = releaseService.Publish(ctx, release, services.PublishOptions{
				DryRun: cmd.Bool("dry-run"),
				Draft:  cmd.Bool("draft"),
			})
			return err
		})
		if err != nil {
			return wrapError(trans, "error_publishing", err)
		}

		if result.DryRun {
			fmt.Fprint(out, result.Notes.Body())
			ui.PrintWarning(out, trans.GetMessage("publish_dry_run", 0, map[string]interface{}{
				"Version": result.Tag,
			}))
			return nil
		}

		if result.ChangelogPath != "" {
			ui.PrintInfo(out, trans.GetMessage("publish_changelog_written", 0, map[string]interface{}{
				"Path": result.ChangelogPath,
			}))
		}
		ui.PrintSuccess(out, trans.GetMessage("publish_success", 0, map[string]interface{}{
			"Version": result.Tag,
			"URL":     result.URL,
		}))

		return nil
	}
}
