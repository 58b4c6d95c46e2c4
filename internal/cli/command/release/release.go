package release

import (
	"context"

	cfg "github.com/Tomas-vilte/semrel/internal/config"
	"github.com/Tomas-vilte/semrel/internal/i18n"
	"github.com/Tomas-vilte/semrel/internal/logger"
	"github.com/Tomas-vilte/semrel/internal/models"
	"github.com/Tomas-vilte/semrel/internal/services"
	"github.com/urfave/cli/v3"
)

// releaseService is a minimal interface for testing purposes
type releaseService interface {
	Analyze(ctx context.Context) (*models.Release, error)
	GenerateNotes(ctx context.Context, release *models.Release) (*models.ReleaseNotes, error)
	Publish(ctx context.Context, release *models.Release, opts services.PublishOptions) (*services.PublishResult, error)
}

// ServiceBuilder wires a ReleaseService from the flags of the running command.
type ServiceBuilder func(ctx context.Context, cmd *cli.Command) (*services.ReleaseService, error)

type ReleaseCommandFactory struct {
	build ServiceBuilder
}

func NewReleaseCommandFactory(build ServiceBuilder) *ReleaseCommandFactory {
	return &ReleaseCommandFactory{build: build}
}

func (r *ReleaseCommandFactory) CreateCommand(t *i18n.Translations, _ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:    "release",
		Aliases: []string{"r"},
		Usage:   t.GetMessage("release_command_usage", 0, nil),
		Commands: []*cli.Command{
			r.newPreviewCommand(t),
			r.newPublishCommand(t),
		},
	}
}

// engineFlags are shared by every command that classifies commits.
func engineFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "rules",
			Usage: t.GetMessage("flag_rules", 0, nil),
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Value:   0,
			Usage:   t.GetMessage("flag_workers", 0, nil),
		},
	}
}

func (r *ReleaseCommandFactory) withService(
	trans *i18n.Translations,
	action func(releaseService, *i18n.Translations) cli.ActionFunc,
) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		service, err := r.build(ctx, cmd)
		if err != nil {
			return err
		}

		ctx, runID := logger.WithRunID(ctx)
		defer func() {
			if err := service.Close(); err != nil {
				logger.Debug(ctx, "could not close release service", "error", err)
			}
		}()

		logger.Debug(ctx, "release run started", "command", cmd.Name, logger.RunIDKey, runID)
		return action(service, trans)(ctx, cmd)
	}
}

// commandError carries a translated message while keeping the cause in the
// chain for ui.HandleAppError.
type commandError struct {
	msg string
	err error
}

func (e *commandError) Error() string { return e.msg }

func (e *commandError) Unwrap() error { return e.err }

func wrapError(trans *i18n.Translations, messageID string, err error) error {
	return &commandError{
		msg: trans.GetMessage(messageID, 0, map[string]interface{}{"Error": err.Error()}),
		err: err,
	}
}
