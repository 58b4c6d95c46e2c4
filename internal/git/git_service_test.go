package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}

	dir := t.TempDir()
	for _, args := range [][]string{
		{"init", "-b", "main"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	return dir
}

func lastCommitSubject(t *testing.T, dir string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "-1", "--format=%s")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestGitService_CommitRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("commits the changelog as a release", func(t *testing.T) {
		dir := setupTestRepo(t)
		svc := NewGitService(dir)

		require.NoError(t, os.MkdirAll(filepath.Join(dir, "changelogs"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "changelogs", "CHANGELOG.md"), []byte("## v1.0.0\n"), 0644))

		err := svc.CommitRelease(ctx, "changelogs/CHANGELOG.md", "v1.0.0", false)

		require.NoError(t, err)
		assert.Equal(t, "Release v1.0.0\n", lastCommitSubject(t, dir))
		assert.False(t, svc.HasStagedChanges(ctx))
	})

	t.Run("fails when the file does not exist", func(t *testing.T) {
		dir := setupTestRepo(t)
		svc := NewGitService(dir)

		err := svc.CommitRelease(ctx, "missing.md", "v1.0.0", false)

		assert.ErrorIs(t, err, domainErrors.ErrGitCommand)
	})

	t.Run("fails when there is nothing to commit", func(t *testing.T) {
		dir := setupTestRepo(t)
		svc := NewGitService(dir)

		err := svc.CreateCommit(ctx, "Release v1.0.0")

		assert.ErrorIs(t, err, domainErrors.ErrNoStagedChanges)
	})

	t.Run("push without a remote fails", func(t *testing.T) {
		dir := setupTestRepo(t)
		svc := NewGitService(dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGELOG.md"), []byte("x"), 0644))

		err := svc.CommitRelease(ctx, "CHANGELOG.md", "v1.0.0", true)

		assert.ErrorIs(t, err, domainErrors.ErrGitCommand)
		assert.Equal(t, "Release v1.0.0\n", lastCommitSubject(t, dir))
	})
}

func TestGitService_GetRepoInfo(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		remote  string
		owner   string
		repo    string
		wantErr bool
	}{
		{"ssh remote", "git@github.com:acme/widgets.git", "acme", "widgets", false},
		{"https remote", "https://github.com/acme/widgets.git", "acme", "widgets", false},
		{"unparseable remote", "file:///tmp/repo", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupTestRepo(t)
			cmd := exec.Command("git", "remote", "add", "origin", tt.remote)
			cmd.Dir = dir
			require.NoError(t, cmd.Run())

			owner, repo, err := NewGitService(dir).GetRepoInfo(ctx)
			if tt.wantErr {
				assert.ErrorIs(t, err, domainErrors.ErrRepositoryMissing)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}

	t.Run("no origin", func(t *testing.T) {
		_, _, err := NewGitService(setupTestRepo(t)).GetRepoInfo(ctx)
		assert.ErrorIs(t, err, domainErrors.ErrGitCommand)
	})
}

func TestGitService_GetCurrentBranch(t *testing.T) {
	dir := setupTestRepo(t)

	branch, err := NewGitService(dir).GetCurrentBranch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}
