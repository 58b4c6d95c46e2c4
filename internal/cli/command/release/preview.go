package release

import (
	"context"
	"fmt"
	"io"

	"github.com/Tomas-vilte/semrel/internal/cli/completion_helper"
	"github.com/Tomas-vilte/semrel/internal/i18n"
	"github.com/Tomas-vilte/semrel/internal/models"
	"github.com/Tomas-vilte/semrel/internal/ui"
	"github.com/urfave/cli/v3"
)

func (r *ReleaseCommandFactory) newPreviewCommand(trans *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:          "preview",
		Aliases:       []string{"p"},
		Usage:         trans.GetMessage("release_preview_usage", 0, nil),
		Flags:         engineFlags(trans),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        r.withService(trans, previewReleaseAction),
	}
}

func previewReleaseAction(releaseService releaseService, trans *i18n.Translations) cli.ActionFunc {
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

		fmt.Fprintln(out, trans.GetMessage("preview_previous_tag", 0, map[string]interface{}{
			"Version": release.PreviousVersion,
		}))
		printCounts(out, trans, release)

		if !release.HasRelease() {
			ui.PrintInfo(out, trans.GetMessage("preview_no_release", 0, nil))
			return nil
		}

		fmt.Fprintln(out, trans.GetMessage("preview_next_tag", 0, map[string]interface{}{
			"Version": release.Version,
			"Level":   release.Level.String(),
		}))
		fmt.Fprintln(out)

		notes, err := releaseService.GenerateNotes(ctx, release)
		if err != nil {
			return wrapError(trans, "error_generating_notes", err)
		}

		ui.PrintSectionBanner(out, notes.Title)
		fmt.Fprint(out, notes.Body())
		return nil
	}
}

func printCounts(out io.Writer, trans *i18n.Translations, release *models.Release) {
	total := len(release.Commits)
	fmt.Fprintln(out, trans.GetMessage("preview_commits", total, map[string]interface{}{
		"Count": total,
	}))
	fmt.Fprintln(out, trans.GetMessage("preview_counts", 0, map[string]interface{}{
		"Major":     release.Counts.Major,
		"Minor":     release.Counts.Minor,
		"Patch":     release.Counts.Patch,
		"Unmatched": release.Counts.Unmatched,
	}))
}
