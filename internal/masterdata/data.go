// Package masterdata loads the static lists that support authoring:
// insertion templates, keyword candidates, domain names, species names and
// the application config object.
//
// Each list lives in its own file under a data directory. A file may be JSON
// or YAML; a file that is missing or malformed yields an empty list, never an
// error, so the application always starts.
package masterdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Template is a canned snippet inserted into a rich-text field.
type Template struct {
	ID         string `yaml:"id" json:"id" validate:"required"`
	Label      string `yaml:"label" json:"label" validate:"required"`
	InsertText string `yaml:"insertText" json:"insertText"`
	AnswerMode string `yaml:"answerMode" json:"answerMode,omitempty"`
}

// Data is one loaded snapshot of the master data directory.
type Data struct {
	Templates []Template     `json:"templates"`
	Keywords  []string       `json:"keywords"`
	Domains   []string       `json:"domains"`
	Species   []string       `json:"species"`
	Config    map[string]any `json:"config"`
}

// AppName returns config.appName, or "" when unset.
func (d *Data) AppName() string {
	name, _ := d.Config["appName"].(string)
	return name
}

// Template returns the template with the given id.
func (d *Data) Template(id string) (Template, bool) {
	for _, t := range d.Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Base names of the master data files, without extension.
const (
	TemplatesFile = "templates"
	KeywordsFile  = "keywords"
	DomainsFile   = "domains"
	SpeciesFile   = "species"
	ConfigFile    = "config"
)

var extensions = []string{".json", ".yaml", ".yml"}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads every master data file in dir. Problems are logged and the
// affected list is left empty.
func Load(dir string, logger *slog.Logger) *Data {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Data{
		Templates: []Template{},
		Keywords:  []string{},
		Domains:   []string{},
		Species:   []string{},
		Config:    map[string]any{},
	}

	var templates []Template
	if decodeFile(dir, TemplatesFile, &templates, logger) {
		for i, t := range templates {
			if err := validate.Struct(t); err != nil {
				logger.Warn("skipping invalid template", "index", i, "error", err)
				continue
			}
			d.Templates = append(d.Templates, t)
		}
	}

	var keywords []string
	if decodeFile(dir, KeywordsFile, &keywords, logger) {
		d.Keywords = append(d.Keywords, keywords...)
	}

	var domains struct {
		Domains []string `yaml:"domains" json:"domains"`
	}
	if decodeFile(dir, DomainsFile, &domains, logger) {
		d.Domains = append(d.Domains, domains.Domains...)
	}

	var species []string
	if decodeFile(dir, SpeciesFile, &species, logger) {
		d.Species = append(d.Species, species...)
	}

	var config map[string]any
	if decodeFile(dir, ConfigFile, &config, logger) && config != nil {
		d.Config = config
	}

	logger.Info("master data loaded",
		"dir", dir,
		"templates", len(d.Templates),
		"keywords", len(d.Keywords),
		"domains", len(d.Domains),
		"species", len(d.Species),
	)
	return d
}

// decodeFile decodes the first existing file named base with a known
// extension. It reports whether dst was filled.
func decodeFile(dir, base string, dst any, logger *slog.Logger) bool {
	for _, ext := range extensions {
		path := filepath.Join(dir, base+ext)
		raw, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			logger.Warn("master data file unreadable", "path", path, "error", err)
			return false
		}
		if err := unmarshal(ext, raw, dst); err != nil {
			logger.Warn("master data file malformed", "path", path, "error", fmt.Errorf("decode %s: %w", base, err))
			return false
		}
		return true
	}
	return false
}

// unmarshal decodes JSON files with encoding/json, which accepts tab
// indentation that YAML rejects, and everything else with yaml.v3.
func unmarshal(ext string, raw []byte, dst any) error {
	if ext == ".json" {
		return json.Unmarshal(raw, dst)
	}
	return yaml.Unmarshal(raw, dst)
}

// IsDataFile reports whether name is one of the files Load reads.
func IsDataFile(name string) bool {
	ext := filepath.Ext(name)
	base := filepath.Base(name)
	base = base[:len(base)-len(ext)]
	switch base {
	case TemplatesFile, KeywordsFile, DomainsFile, SpeciesFile, ConfigFile:
	default:
		return false
	}
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
