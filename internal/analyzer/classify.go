// Package analyzer classifies commit messages against a rule set and reduces
// a batch of classifications to a single release decision.
package analyzer

import (
	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/Tomas-vilte/semrel/internal/models"
	"github.com/Tomas-vilte/semrel/internal/rules"
)

// Classify returns the first level, in Major, Minor, Patch order, whose rule
// matches message. ok is false when no rule matches; that is an expected
// outcome, not an error. err is set only when a rule cannot be evaluated.
func Classify(rs *rules.RuleSet, message string) (level models.ReleaseLevel, ok bool, err error) {
	for _, candidate := range models.Levels() {
		rule, found := rs.Rule(candidate)
		if !found {
			return 0, false, domainErrors.ErrMissingReleaseLevel.WithContext("level", candidate.String())
		}

		matched, err := rule.Match(message)
		if err != nil {
			return 0, false, addLevel(err, candidate)
		}
		if matched {
			return candidate, true, nil
		}
	}
	return 0, false, nil
}

func addLevel(err error, level models.ReleaseLevel) error {
	if appErr, ok := err.(*domainErrors.AppError); ok {
		return appErr.WithContext("level", level.String())
	}
	return err
}
