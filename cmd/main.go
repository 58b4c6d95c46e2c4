package main

import (
	"context"
	"os"

	"github.com/Tomas-vilte/semrel/internal/ai/gemini"
	"github.com/Tomas-vilte/semrel/internal/changelog"
	configcmd "github.com/Tomas-vilte/semrel/internal/cli/command/config"
	"github.com/Tomas-vilte/semrel/internal/cli/command/release"
	rulescmd "github.com/Tomas-vilte/semrel/internal/cli/command/rules"
	"github.com/Tomas-vilte/semrel/internal/cli/registry"
	cfg "github.com/Tomas-vilte/semrel/internal/config"
	"github.com/Tomas-vilte/semrel/internal/git"
	"github.com/Tomas-vilte/semrel/internal/i18n"
	"github.com/Tomas-vilte/semrel/internal/logger"
	"github.com/Tomas-vilte/semrel/internal/notifier/mattermost"
	"github.com/Tomas-vilte/semrel/internal/rules"
	"github.com/Tomas-vilte/semrel/internal/services"
	"github.com/Tomas-vilte/semrel/internal/ui"
	"github.com/Tomas-vilte/semrel/internal/vcs/github"
	"github.com/Tomas-vilte/semrel/internal/version"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

func main() {
	app, translations, err := initializeApp()
	if err != nil {
		ui.HandleAppError(os.Stderr, err, nil)
		os.Exit(1)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		ui.HandleAppError(os.Stderr, err, translations)
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, *i18n.Translations, error) {
	logger.Initialize(false, false)

	fs := afero.NewOsFs()
	cfgApp, err := cfg.LoadConfig(fs, os.Getenv(cfg.EnvConfigPath))
	if err != nil {
		return nil, nil, err
	}

	translations, err := i18n.NewTranslations(cfgApp.Language)
	if err != nil {
		return nil, nil, err
	}

	gitService := git.NewGitService("")

	commandRegistry := registry.NewRegistry(cfgApp, translations)
	factories := []struct {
		name    string
		factory registry.CommandFactory
	}{
		{"release", release.NewReleaseCommandFactory(newReleaseServiceBuilder(fs, cfgApp, gitService))},
		{"rules", rulescmd.NewRulesCommandFactory(fs)},
		{"config", configcmd.NewConfigCommandFactory(fs)},
	}
	for _, f := range factories {
		if err := commandRegistry.Register(f.name, f.factory); err != nil {
			return nil, nil, err
		}
	}

	return &cli.Command{
		Name:                  "semrel",
		Usage:                 translations.GetMessage("app_usage", 0, nil),
		Version:               version.FullApp(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: translations.GetMessage("flag_debug", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: translations.GetMessage("flag_verbose", 0, nil),
			},
		},
		Commands: commandRegistry.CreateCommands(),
	}, translations, nil
}

func newReleaseServiceBuilder(fs afero.Fs, cfgApp *cfg.Config, gitService *git.GitService) release.ServiceBuilder {
	return func(ctx context.Context, cmd *cli.Command) (*services.ReleaseService, error) {
		root := cmd.Root()
		logger.Initialize(root.Bool("debug"), root.Bool("verbose"))

		rulesPath := cmd.String("rules")
		if rulesPath == "" {
			rulesPath = cfgApp.RulesFile
		}
		rs, err := rules.LoadOrDefault(fs, rulesPath)
		if err != nil {
			return nil, err
		}

		repoCfg := cfgApp.Repository
		if repoCfg.Owner == "" || repoCfg.Name == "" {
			owner, name, err := gitService.GetRepoInfo(ctx)
			if err != nil {
				logger.Debug(ctx, "could not read repository from git remote", "error", err)
			} else {
				repoCfg.Owner, repoCfg.Name = owner, name
			}
		}

		vcsClient, err := github.NewGitHubClient(repoCfg)
		if err != nil {
			return nil, err
		}

		opts := []services.ReleaseOption{
			services.WithReleaseRules(rs),
			services.WithReleaseConfig(cfgApp),
			services.WithReleaseWorkers(int(cmd.Int("workers"))),
			services.WithReleaseCommitter(gitService),
		}

		if cfgApp.Changelog.Enabled {
			opts = append(opts, services.WithReleaseChangelog(changelog.NewWriter(fs, cfgApp.Changelog.Path)))
		}

		if cfgApp.Notifier.Enabled {
			client, err := mattermost.NewClient(cfgApp.Notifier.Mattermost, nil)
			if err != nil {
				return nil, err
			}
			opts = append(opts, services.WithReleaseNotifier(client))
		}

		if cfgApp.AI.Enabled {
			summarizer, err := gemini.NewReleaseSummarizer(ctx, cfgApp.AI, cfgApp.Language)
			if err != nil {
				logger.Warn(ctx, "release summary disabled", "error", err)
			} else {
				opts = append(opts, services.WithReleaseSummarizer(summarizer))
			}
		}

		return services.NewReleaseService(vcsClient, opts...), nil
	}
}
