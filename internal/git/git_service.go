package git

import (
	"context"
	"os/exec"
	"strings"

	"github.com/Tomas-vilte/semrel/internal/config"
	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/Tomas-vilte/semrel/internal/logger"
)

// GitService runs git in a working tree. An empty Dir means the current
// directory.
type GitService struct {
	Dir string
}

func NewGitService(dir string) *GitService {
	return &GitService{Dir: dir}
}

func (s *GitService) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.Dir
	return cmd
}

func (s *GitService) run(ctx context.Context, args ...string) (string, error) {
	var stderr strings.Builder
	cmd := s.command(ctx, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", domainErrors.ErrGitCommand.WithError(err).
			WithContext("command", "git "+strings.Join(args, " ")).
			WithContext("stderr", strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

// HasStagedChanges checks if there are changes in the staging area
func (s *GitService) HasStagedChanges(ctx context.Context) bool {
	cmd := s.command(ctx, "diff", "--cached", "--quiet")
	err := cmd.Run()

	// exit status 1 means the index differs from HEAD
	return err != nil && cmd.ProcessState != nil && cmd.ProcessState.ExitCode() == 1
}

func (s *GitService) AddFileToStaging(ctx context.Context, file string) error {
	_, err := s.run(ctx, "add", "--", file)
	return err
}

func (s *GitService) CreateCommit(ctx context.Context, message string) error {
	if !s.HasStagedChanges(ctx) {
		return domainErrors.ErrNoStagedChanges
	}
	_, err := s.run(ctx, "commit", "-m", message)
	return err
}

// Push pushes commits to the remote repository
func (s *GitService) Push(ctx context.Context) error {
	_, err := s.run(ctx, "push")
	return err
}

func (s *GitService) GetCurrentBranch(ctx context.Context) (string, error) {
	branch, err := s.run(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	if branch == "" {
		return "", domainErrors.ErrGitCommand.WithContext("reason", "detached HEAD")
	}
	return branch, nil
}

// GetRepoInfo returns owner and name parsed from the origin remote.
func (s *GitService) GetRepoInfo(ctx context.Context) (string, string, error) {
	url, err := s.run(ctx, "remote", "get-url", "origin")
	if err != nil {
		return "", "", err
	}

	owner, name, ok := config.ParseRepositoryURL(url)
	if !ok {
		return "", "", domainErrors.ErrRepositoryMissing.WithContext("remote", url)
	}
	return owner, name, nil
}

// CommitRelease stages file and records it as "Release <tag>", then pushes
// when push is set.
func (s *GitService) CommitRelease(ctx context.Context, file, tag string, push bool) error {
	if err := s.AddFileToStaging(ctx, file); err != nil {
		return err
	}
	if err := s.CreateCommit(ctx, "Release "+tag); err != nil {
		return err
	}
	logger.Info(ctx, "changelog committed", "path", file, "tag", tag)

	if !push {
		return nil
	}
	return s.Push(ctx)
}
