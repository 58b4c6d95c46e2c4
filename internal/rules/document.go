package rules

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/Tomas-vilte/semrel/internal/models"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type (
	// Document is the on-disk shape of a rule set:
	//
	//	[release_rules]
	//	major = { format = "regex", grammar = '...' }
	//	minor = { format = "regex", grammar = '...' }
	//	patch = { format = "regex", grammar = '...' }
	Document struct {
		ReleaseRules map[string]RuleDocument `toml:"release_rules" yaml:"release_rules"`
	}

	RuleDocument struct {
		Format  string `toml:"format" yaml:"format"`
		Grammar string `toml:"grammar" yaml:"grammar"`
	}
)

// Load decodes a TOML document and validates it into a RuleSet.
func Load(document []byte) (*RuleSet, error) {
	var doc Document
	if _, err := toml.NewDecoder(bytes.NewReader(document)).Decode(&doc); err != nil {
		return nil, domainErrors.ErrDecodeRules.WithError(err).WithContext("format", "toml")
	}
	return doc.RuleSet()
}

// LoadYAML decodes a YAML document with the same structure as Load.
func LoadYAML(document []byte) (*RuleSet, error) {
	var doc Document
	if err := yaml.Unmarshal(document, &doc); err != nil {
		return nil, domainErrors.ErrDecodeRules.WithError(err).WithContext("format", "yaml")
	}
	return doc.RuleSet()
}

// LoadFile reads path from fsys and decodes it according to its extension.
// A missing file yields ErrRulesNotFound.
func LoadFile(fsys afero.Fs, path string) (*RuleSet, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domainErrors.ErrRulesNotFound.WithError(err).WithContext("path", path)
		}
		return nil, domainErrors.ErrConfigRead.WithError(err).WithContext("path", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(data)
	default:
		return Load(data)
	}
}

// LoadOrDefault loads the rules at path, falling back to Default when path
// is empty or the file does not exist. Any other failure is returned.
func LoadOrDefault(fsys afero.Fs, path string) (*RuleSet, error) {
	if path == "" {
		return Default(), nil
	}

	rs, err := LoadFile(fsys, path)
	if errors.Is(err, domainErrors.ErrRulesNotFound) {
		return Default(), nil
	}
	return rs, err
}

// RuleSet validates the document. Keys are matched case-sensitively, so
// `Major` is not a substitute for `major`.
func (d Document) RuleSet() (*RuleSet, error) {
	set := make(map[models.ReleaseLevel]Rule, len(models.Levels()))
	for _, level := range models.Levels() {
		raw, ok := d.ReleaseRules[level.String()]
		if !ok {
			continue
		}
		format, err := ParseFormat(raw.Format)
		if err != nil {
			return nil, domainErrors.ErrUnknownFormat.
				WithContext("level", level.String()).
				WithContext("format", raw.Format)
		}
		set[level] = Rule{Format: format, Grammar: raw.Grammar}
	}
	return New(set)
}

// Encode writes the document as TOML.
func (d Document) Encode() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
