package flutter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Pubspec holds the pubspec.yaml fields droidcfg reads.
type Pubspec struct {
	Name        string            `yaml:"name"`
	Version     string            `yaml:"version"`
	Environment map[string]string `yaml:"environment"`
}

// PubspecVersion is a pubspec version split the way the Flutter tool splits
// it: "1.2.3+45" gives versionName "1.2.3" and versionCode 45.
type PubspecVersion struct {
	Name     string
	Build    int
	HasBuild bool
}

// ReadPubspec reads pubspec.yaml. A missing file yields nil.
func ReadPubspec(path string) (*Pubspec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var ps Pubspec
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &ps, nil
}

// ParsedVersion parses the version field. It returns nil when the field is
// absent.
func (ps *Pubspec) ParsedVersion() (*PubspecVersion, error) {
	if strings.TrimSpace(ps.Version) == "" {
		return nil, nil
	}
	return ParsePubspecVersion(ps.Version)
}

// ParsePubspecVersion parses "X.Y.Z[-pre][+build]". The build part, when
// present, must be an integer because it becomes the versionCode.
func ParsePubspecVersion(s string) (*PubspecVersion, error) {
	s = strings.TrimSpace(s)
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("version %q is not a semantic version: %w", s, err)
	}

	pv := &PubspecVersion{
		Name: strings.SplitN(s, "+", 2)[0],
	}

	if meta := v.Metadata(); meta != "" {
		build, err := strconv.Atoi(meta)
		if err != nil {
			return nil, fmt.Errorf("version %q: build number %q is not an integer", s, meta)
		}
		pv.Build = build
		pv.HasBuild = true
	}

	return pv, nil
}
