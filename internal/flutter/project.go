// Package flutter reads the values the Flutter tool supplies to the Android
// build: the version pair behind flutter.versionCode / flutter.versionName,
// the SDK locations in local.properties, and the SDK levels behind
// flutter.compileSdkVersion and friends.
package flutter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	oerrors "github.com/safespot/droidcfg/internal/errors"
	"github.com/safespot/droidcfg/internal/output"
)

// Files read relative to the project root.
const (
	LocalPropertiesFile = "android/local.properties"
	PubspecFile         = "pubspec.yaml"
)

// Keys written to local.properties by the Flutter tool.
const (
	keyVersionCode = "flutter.versionCode"
	keyVersionName = "flutter.versionName"
	keyFlutterSDK  = "flutter.sdk"
	keyAndroidSDK  = "sdk.dir"
)

// Flutter Gradle plugin fallbacks when nothing else supplies a version.
const (
	DefaultVersionCode = 1
	DefaultVersionName = "1.0"
)

// Source names where a resolved value came from.
type Source string

const (
	SourceOverride        Source = "override"
	SourceLocalProperties Source = "local.properties"
	SourcePubspec         Source = "pubspec.yaml"
	SourceDefault         Source = "default"
)

// Overrides replace values from every file source. Empty fields are ignored.
type Overrides struct {
	VersionCode string
	VersionName string
}

// Versions is the resolved version pair and the source of each value.
type Versions struct {
	Code       int
	CodeSource Source
	Name       string
	NameSource Source
}

// Project is a Flutter project on disk. Values are read once, on first use.
type Project struct {
	root      string
	overrides Overrides

	once     sync.Once
	local    map[string]string
	pubspec  *Pubspec
	versions Versions
	err      error
}

// Open returns the project rooted at root. The directory must exist.
func Open(root string, overrides Overrides) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oerrors.NewNotFoundError("Flutter project not found", abs,
				"Set flutter.source in the profile or pass --project")
		}
		return nil, fmt.Errorf("checking project root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", abs)
	}

	return &Project{root: abs, overrides: overrides}, nil
}

// ResolveRoot returns the Flutter project root for a profile stored in
// profileDir whose flutter.source is source. The source is relative to the
// android/app module directory, which is where profiles normally live.
func ResolveRoot(profileDir, source string) string {
	if source == "" {
		source = "../.."
	}
	if filepath.IsAbs(source) {
		return filepath.Clean(source)
	}
	return filepath.Join(profileDir, source)
}

// Root returns the absolute project root.
func (p *Project) Root() string { return p.root }

// Versions returns the resolved version pair.
func (p *Project) Versions() (Versions, error) {
	p.once.Do(p.load)
	return p.versions, p.err
}

// VersionCode returns the value behind flutter.versionCode.
func (p *Project) VersionCode() (int, error) {
	v, err := p.Versions()
	if err != nil {
		return 0, err
	}
	return v.Code, nil
}

// VersionName returns the value behind flutter.versionName.
func (p *Project) VersionName() (string, error) {
	v, err := p.Versions()
	if err != nil {
		return "", err
	}
	return v.Name, nil
}

// FlutterSDK returns the flutter.sdk entry of local.properties, if any.
func (p *Project) FlutterSDK() string {
	p.once.Do(p.load)
	return p.local[keyFlutterSDK]
}

// AndroidSDK returns the sdk.dir entry of local.properties, if any.
func (p *Project) AndroidSDK() string {
	p.once.Do(p.load)
	return p.local[keyAndroidSDK]
}

// Pubspec returns the parsed pubspec.yaml, or nil when the project has none.
func (p *Project) Pubspec() *Pubspec {
	p.once.Do(p.load)
	return p.pubspec
}

func (p *Project) load() {
	p.local, p.err = readLocalProperties(filepath.Join(p.root, LocalPropertiesFile))
	if p.err != nil {
		return
	}

	p.pubspec, p.err = ReadPubspec(filepath.Join(p.root, PubspecFile))
	if p.err != nil {
		return
	}

	p.versions, p.err = p.resolve()
	if p.err == nil {
		output.Debug("resolved Flutter versions",
			"root", p.root,
			"versionCode", p.versions.Code, "codeSource", p.versions.CodeSource,
			"versionName", p.versions.Name, "nameSource", p.versions.NameSource,
		)
	}
}

// resolve applies the precedence override > local.properties > pubspec.yaml > default.
func (p *Project) resolve() (Versions, error) {
	v := Versions{
		Code:       DefaultVersionCode,
		CodeSource: SourceDefault,
		Name:       DefaultVersionName,
		NameSource: SourceDefault,
	}

	if p.pubspec != nil {
		pv, err := p.pubspec.ParsedVersion()
		if err != nil {
			return Versions{}, fmt.Errorf("%s: %w", filepath.Join(p.root, PubspecFile), err)
		}
		if pv != nil {
			v.Name, v.NameSource = pv.Name, SourcePubspec
			if pv.HasBuild {
				v.Code, v.CodeSource = pv.Build, SourcePubspec
			}
		}
	}

	if s, ok := p.local[keyVersionCode]; ok && s != "" {
		code, err := parseCode(s)
		if err != nil {
			return Versions{}, fmt.Errorf("%s: %s: %w", filepath.Join(p.root, LocalPropertiesFile), keyVersionCode, err)
		}
		v.Code, v.CodeSource = code, SourceLocalProperties
	}
	if s, ok := p.local[keyVersionName]; ok && s != "" {
		v.Name, v.NameSource = s, SourceLocalProperties
	}

	if p.overrides.VersionCode != "" {
		code, err := parseCode(p.overrides.VersionCode)
		if err != nil {
			return Versions{}, fmt.Errorf("version code override: %w", err)
		}
		v.Code, v.CodeSource = code, SourceOverride
	}
	if p.overrides.VersionName != "" {
		v.Name, v.NameSource = p.overrides.VersionName, SourceOverride
	}

	return v, nil
}

func parseCode(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return n, nil
}

// readLocalProperties reads a Java properties file written by the Flutter
// tool. A missing file yields an empty map.
func readLocalProperties(path string) (map[string]string, error) {
	props, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return props, nil
}
