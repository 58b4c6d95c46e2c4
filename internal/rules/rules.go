// Package rules holds the release rule set: one grammar per release level,
// used to decide which level a commit message calls for.
package rules

import (
	"fmt"
	"regexp"

	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/Tomas-vilte/semrel/internal/models"
	"github.com/Tomas-vilte/semrel/internal/regex"
)

// Format is the idiom a grammar is written in.
type Format string

const (
	FormatRegex Format = "regex"
	// FormatPeg is reserved; rules using it fail when evaluated.
	FormatPeg Format = "peg"
)

// ParseFormat converts a format name. Formats are a closed set, so anything
// else is a configuration error.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatRegex, FormatPeg:
		return Format(s), nil
	default:
		return "", domainErrors.ErrUnknownFormat.WithContext("format", s)
	}
}

// Rule is the grammar a commit message must satisfy to resolve to a level.
type Rule struct {
	Format  Format
	Grammar string

	compiled *regexp.Regexp
}

// Match evaluates the grammar against message.
func (r Rule) Match(message string) (bool, error) {
	switch r.Format {
	case FormatRegex:
		re := r.compiled
		if re == nil {
			var err error
			re, err = regexp.Compile(r.Grammar)
			if err != nil {
				return false, domainErrors.ErrInvalidGrammar.WithError(err)
			}
		}
		return re.MatchString(message), nil
	case FormatPeg:
		return false, domainErrors.ErrNotImplemented.WithContext("format", string(r.Format))
	default:
		return false, domainErrors.ErrUnknownFormat.WithContext("format", string(r.Format))
	}
}

// RuleSet maps every release level to its rule. It is never mutated after
// construction and is safe for concurrent use.
type RuleSet struct {
	rules map[models.ReleaseLevel]Rule
}

// New validates rules and builds a RuleSet. Every level must be present with
// a non-empty grammar, and regex grammars must compile.
func New(rules map[models.ReleaseLevel]Rule) (*RuleSet, error) {
	rs := &RuleSet{rules: make(map[models.ReleaseLevel]Rule, len(rules))}

	for _, level := range models.Levels() {
		rule, ok := rules[level]
		if !ok {
			return nil, domainErrors.ErrMissingReleaseLevel.WithContext("level", level.String())
		}
		if rule.Grammar == "" {
			return nil, domainErrors.ErrEmptyGrammar.WithContext("level", level.String())
		}

		switch rule.Format {
		case FormatRegex:
			re, err := regexp.Compile(rule.Grammar)
			if err != nil {
				return nil, domainErrors.ErrInvalidGrammar.WithError(err).WithContext("level", level.String())
			}
			rule.compiled = re
		case FormatPeg:
		default:
			return nil, domainErrors.ErrUnknownFormat.
				WithContext("level", level.String()).
				WithContext("format", string(rule.Format))
		}

		rs.rules[level] = rule
	}

	return rs, nil
}

// Default returns the built-in rule set.
func Default() *RuleSet {
	rs, err := New(map[models.ReleaseLevel]Rule{
		models.Major: {Format: FormatRegex, Grammar: regex.MajorGrammar},
		models.Minor: {Format: FormatRegex, Grammar: regex.MinorGrammar},
		models.Patch: {Format: FormatRegex, Grammar: regex.PatchGrammar},
	})
	if err != nil {
		panic(fmt.Sprintf("rules: invalid built-in rule set: %v", err))
	}
	return rs
}

// Rule returns the rule registered for level. A nil set has no rules.
func (rs *RuleSet) Rule(level models.ReleaseLevel) (Rule, bool) {
	if rs == nil {
		return Rule{}, false
	}
	rule, ok := rs.rules[level]
	return rule, ok
}

// Document returns the rule set in its serialisable shape.
func (rs *RuleSet) Document() Document {
	if rs == nil {
		return Document{ReleaseRules: map[string]RuleDocument{}}
	}
	doc := Document{ReleaseRules: make(map[string]RuleDocument, len(rs.rules))}
	for level, rule := range rs.rules {
		doc.ReleaseRules[level.String()] = RuleDocument{Format: string(rule.Format), Grammar: rule.Grammar}
	}
	return doc
}
