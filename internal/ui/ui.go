package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/Tomas-vilte/semrel/internal/i18n"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

var (
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Accent  = color.New(color.FgMagenta, color.Bold)
	Dim     = color.New(color.FgHiBlack)

	SuccessEmoji = Success.Sprint("✅")
	WarningEmoji = Warning.Sprint("⚠️")
	InfoEmoji    = Info.Sprint("ℹ️")
	RocketEmoji  = Accent.Sprint("🚀")
)

const separator = "━━━━━━━━━━━━━━━━━━━━━━━"

// SmartSpinner wraps a terminal spinner. It only animates when it writes to
// an *os.File.
type SmartSpinner struct {
	spinner *spinner.Spinner
}

func NewSmartSpinner(w io.Writer, message string) *SmartSpinner {
	f, ok := w.(*os.File)
	if !ok {
		return &SmartSpinner{}
	}
	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithWriter(f),
		spinner.WithColor("cyan"),
		spinner.WithSuffix(" "+message),
	)
	return &SmartSpinner{spinner: s}
}

func (s *SmartSpinner) Start() {
	if s.spinner != nil {
		s.spinner.Start()
	}
}

func (s *SmartSpinner) Stop() {
	if s.spinner != nil {
		s.spinner.Stop()
	}
}

// WithSpinner runs fn while a spinner shows message on w.
func WithSpinner(w io.Writer, message string, fn func() error) error {
	s := NewSmartSpinner(w, message)
	s.Start()
	defer s.Stop()
	return fn()
}

func PrintSuccess(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", SuccessEmoji, Success.Sprint(msg))
}

func PrintError(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Error.Sprint("❌"), Error.Sprint(msg))
}

func PrintWarning(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", WarningEmoji, Warning.Sprint(msg))
}

func PrintInfo(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", InfoEmoji, Info.Sprint(msg))
}

func PrintSectionBanner(w io.Writer, title string) {
	line := color.New(color.FgCyan).Sprint(separator)
	_, _ = fmt.Fprintf(w, "\n%s\n%s %s\n%s\n\n", line, RocketEmoji, Accent.Sprint(title), line)
}

// Writer returns the root command's writer, or stdout when none is set.
func Writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// HandleAppError prints err for a human. AppErrors show their type, cause and
// suggestion; anything else is printed as is. translations may be nil.
func HandleAppError(w io.Writer, err error, t *i18n.Translations) {
	if err == nil {
		return
	}

	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		PrintError(w, err.Error())
		return
	}

	PrintError(w, fmt.Sprintf("%s: %s", appErr.Type, appErr.Message))
	keys := make([]string, 0, len(appErr.Context))
	for k := range appErr.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "   %s\n", Dim.Sprintf("%s=%v", k, appErr.Context[k]))
	}
	if appErr.Err != nil {
		_, _ = fmt.Fprintf(w, "   %s\n", Dim.Sprintf("Details: %v", appErr.Err))
	}

	if appErr.Suggestion == "" {
		return
	}

	tryPrefix := "💡 Try: "
	if t != nil {
		tryPrefix = t.GetMessage("ui_try_suggestion", 0, nil)
	}
	lines := strings.Split(appErr.Suggestion, "\n")
	_, _ = fmt.Fprintf(w, "\n%s%s\n", Info.Sprint(tryPrefix), lines[0])
	for _, line := range lines[1:] {
		_, _ = fmt.Fprintf(w, "       %s\n", line)
	}
}
