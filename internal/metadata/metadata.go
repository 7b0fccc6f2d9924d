package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the per-directory configuration file.
const ConfigFileName = "metadata.yaml"

// Directory holds the settings a metadata.yaml applies to the files
// beside it. All fields are optional.
type Directory struct {
	// Tags are attached verbatim to every card generated from this directory.
	Tags []string `yaml:"tags"`
	// IgnoreSections lists heading titles to drop from fetched pages.
	IgnoreSections []string `yaml:"ignore_sections"`
	// Flow optionally forces "concept" or "problem" for this directory.
	Flow string `yaml:"flow"`
}

// Load reads the metadata.yaml in dir. A missing file is not an error;
// it yields the zero value.
func Load(dir string) (Directory, error) {
	var d Directory

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return d, fmt.Errorf("read %s: %w", ConfigFileName, err)
	}

	if err := yaml.Unmarshal(data, &d); err != nil {
		return Directory{}, fmt.Errorf("parse %s: %w", ConfigFileName, err)
	}
	if err := d.Validate(); err != nil {
		return Directory{}, fmt.Errorf("%s: %w", ConfigFileName, err)
	}
	return d, nil
}

// Validate checks field values.
func (d Directory) Validate() error {
	switch d.Flow {
	case "", "concept", "problem":
	default:
		return fmt.Errorf("flow must be \"concept\" or \"problem\", got %q", d.Flow)
	}
	for _, t := range d.Tags {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("tags must not be blank")
		}
	}
	return nil
}

// IgnoresHeading reports whether a section heading should be dropped.
// Comparison is case-insensitive and ignores surrounding whitespace.
func (d Directory) IgnoresHeading(heading string) bool {
	h := strings.ToLower(strings.TrimSpace(heading))
	for _, ig := range d.IgnoreSections {
		if strings.ToLower(strings.TrimSpace(ig)) == h {
			return true
		}
	}
	return false
}
