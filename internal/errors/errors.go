package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration  ErrorType = "CONFIGURATION"
	TypeClassification ErrorType = "CLASSIFICATION"
	TypeVersion        ErrorType = "VERSION"
	TypeVCS            ErrorType = "VCS"
	TypeChangelog      ErrorType = "CHANGELOG"
	TypeNotifier       ErrorType = "NOTIFIER"
	TypeAI             ErrorType = "AI"
	TypeInternal       ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		for _, key := range []string{"level", "tag", "segment", "commit", "field", "path"} {
			if v, ok := e.Context[key]; ok {
				msg += fmt.Sprintf(" [%s=%v]", key, v)
			}
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same type and message, so
// sentinels still match after WithError or WithContext.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Configuration errors
var (
	ErrMissingReleaseLevel = NewAppError(TypeConfiguration, "release level is missing from release_rules", nil).
				WithSuggestion("Define the three lowercase keys major, minor and patch under [release_rules]")

	ErrUnknownFormat = NewAppError(TypeConfiguration, "unknown release rule format", nil).
				WithSuggestion("Use format = \"regex\" (or the reserved \"peg\")")

	ErrEmptyGrammar = NewAppError(TypeConfiguration, "release rule grammar is empty", nil)

	ErrInvalidGrammar = NewAppError(TypeConfiguration, "release rule grammar does not compile", nil).
				WithSuggestion("Check the regular expression syntax, named groups use (?P<name>...)")

	ErrRulesNotFound = NewAppError(TypeConfiguration, "release rules document not found", nil)

	ErrDecodeRules = NewAppError(TypeConfiguration, "failed to decode release rules document", nil)

	ErrConfigInvalid = NewAppError(TypeConfiguration, "configuration is invalid", nil).
				WithSuggestion("Review your semrel.toml file")

	ErrConfigRead = NewAppError(TypeConfiguration, "failed to read configuration file", nil)
)

// Classification faults
var (
	ErrNotImplemented = NewAppError(TypeClassification, "release rule format is not implemented", nil).
				WithSuggestion("Only the regex format is supported at the moment")

	ErrClassifyCommit = NewAppError(TypeClassification, "failed to classify commit", nil)
)

// Version errors
var (
	ErrTagShape = NewAppError(TypeVersion, "tag does not match the vMAJOR.MINOR.PATCH shape", nil).
			WithSuggestion("Use semantic versioning format: v1.0.0, v2.1.3, etc.")

	ErrTagSegment = NewAppError(TypeVersion, "tag segment is not a valid non-negative integer", nil)

	ErrVersionNotIncreasing = NewAppError(TypeVersion, "new version is not greater than the previous one", nil)

	ErrNoRelease = NewAppError(TypeVersion, "no release level was resolved from the commits", nil).
			WithSuggestion("Use conventional commit messages such as 'feat: add x' or 'fix: handle y'")
)

// VCS errors
var (
	ErrTokenMissing = NewAppError(TypeVCS, "VCS token is missing", nil).
			WithSuggestion("Export GITHUB_TOKEN or set [repository].token in your configuration")

	ErrRepositoryMissing = NewAppError(TypeVCS, "repository owner or name is missing", nil).
				WithSuggestion("Set [repository].owner and [repository].name in your configuration")

	ErrListTags = NewAppError(TypeVCS, "failed to list tags", nil)

	ErrListCommits = NewAppError(TypeVCS, "failed to list commits", nil)

	ErrListPullRequestCommits = NewAppError(TypeVCS, "failed to list pull request commits", nil)

	ErrCreateRelease = NewAppError(TypeVCS, "failed to create release", nil).
				WithSuggestion("Check your GitHub token has 'repo' permissions")

	ErrNoPullRequestNumber = NewAppError(TypeVCS, "commit header carries no pull request number", nil)

	ErrGitHubTokenInvalid = NewAppError(TypeVCS, "GitHub token is invalid or expired", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens")

	ErrGitHubRateLimit = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes or use a personal access token for higher limits")

	ErrGitCommand = NewAppError(TypeVCS, "git command failed", nil).
			WithSuggestion("Make sure git is installed and the working directory is a repository")

	ErrNoStagedChanges = NewAppError(TypeVCS, "there are no staged changes to commit", nil)
)

// Changelog errors
var (
	ErrWriteChangelog = NewAppError(TypeChangelog, "failed to write changelog", nil).
				WithSuggestion("Check the changelog path is writable")

	ErrReadChangelog = NewAppError(TypeChangelog, "failed to read existing changelog", nil)
)

// Notifier errors
var (
	ErrNotifierToken = NewAppError(TypeNotifier, "notifier token is missing", nil).
				WithSuggestion("Export MATTERMOST_TOKEN or set [notifier.mattermost].token")

	ErrNotifyFailed = NewAppError(TypeNotifier, "failed to send release notification", nil)
)

// AI errors
var (
	ErrAPIKeyMissing = NewAppError(TypeAI, "AI API key is missing", nil).
				WithSuggestion("Export GEMINI_API_KEY or set [ai].gemini_api_key")

	ErrAIGeneration = NewAppError(TypeAI, "AI generation failed", nil).
			WithSuggestion("Try again or check your API key configuration")
)
