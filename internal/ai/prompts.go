package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Tomas-vilte/semrel/internal/models"
)

// PromptData holds the parameters for template rendering
type PromptData struct {
	PreviousVersion string
	Version         string
	Level           string
	Commits         string
}

// RenderPrompt renders a prompt template with the provided data
func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

const (
	releaseSummaryTemplateEN = `# Task
  Write the summary paragraph of the release notes for {{.Version}} (previous release: {{.PreviousVersion}}).
  This is a {{.Level}} release.

  # Commits, grouped by release level
  {{.Commits}}

  # Rules
  1. Only mention what the commits say. Do not invent features.
  2. Two to four sentences, plain prose, no headings, no bullet lists.
  3. Lead with the most important change.
  4. Write in English.`

	releaseSummaryTemplateES = `# Tarea
  Escribí el párrafo de resumen de las notas de la versión {{.Version}} (versión anterior: {{.PreviousVersion}}).
  Es una versión de tipo {{.Level}}.

  # Commits, agrupados por nivel
  {{.Commits}}

  # Reglas
  1. Mencioná solo lo que dicen los commits. No inventes funcionalidades.
  2. Entre dos y cuatro oraciones, prosa simple, sin títulos ni listas.
  3. Empezá por el cambio más importante.
  4. Escribí en español.`
)

// GetReleaseSummaryPromptTemplate returns the template for lang, English by default.
func GetReleaseSummaryPromptTemplate(lang string) string {
	if lang == "es" {
		return releaseSummaryTemplateES
	}
	return releaseSummaryTemplateEN
}

// FormatCommitsForPrompt lists classified commit headers under their level,
// highest level first. Unmatched commits are left out.
func FormatCommitsForPrompt(commits []models.Commit) string {
	var sb strings.Builder
	for _, level := range models.Levels() {
		headers := make([]string, 0)
		for _, c := range commits {
			if c.Level != nil && *c.Level == level {
				headers = append(headers, c.Header())
			}
		}
		if len(headers) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n", level)
		for _, h := range headers {
			fmt.Fprintf(&sb, "- %s\n", h)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// BuildReleaseSummaryPrompt renders the summary prompt for release.
func BuildReleaseSummaryPrompt(lang string, release *models.Release) (string, error) {
	level := "none"
	if release.Level != nil {
		level = release.Level.String()
	}
	return RenderPrompt("release_summary", GetReleaseSummaryPromptTemplate(lang), PromptData{
		PreviousVersion: release.PreviousVersion,
		Version:         release.Version,
		Level:           level,
		Commits:         FormatCommitsForPrompt(release.Commits),
	})
}
