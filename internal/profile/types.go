// Package profile defines the Android build profile of a Flutter application
// shell and the rules that make a profile acceptable to the Gradle build.
package profile

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/safespot/droidcfg/internal/sdk"
)

// External references supplied by the Flutter Gradle plugin.
const (
	RefVersionCode = "flutter.versionCode"
	RefVersionName = "flutter.versionName"
)

// Plugin ids applied by a Flutter Android application module.
const (
	PluginAndroidApplication = "com.android.application"
	PluginKotlinAndroid      = "kotlin-android"
	PluginFlutterGradle      = "dev.flutter.flutter-gradle-plugin"
)

// DebugSigningConfig is the signing profile the Android Gradle plugin always declares.
const DebugSigningConfig = "debug"

// Profile is the structured form of android/app/build.gradle.kts.
type Profile struct {
	Plugins      []string     `yaml:"plugins,omitempty" json:"plugins,omitempty" toml:"plugins,omitempty"`
	Android      Android      `yaml:"android" json:"android" toml:"android"`
	Dependencies Dependencies `yaml:"dependencies,omitempty" json:"dependencies,omitzero" toml:"dependencies,omitempty"`
	Flutter      Flutter      `yaml:"flutter,omitempty" json:"flutter,omitzero" toml:"flutter,omitempty"`
}

// Android mirrors the android { } block.
type Android struct {
	Namespace      string          `yaml:"namespace" json:"namespace" toml:"namespace"`
	CompileSdk     sdk.Level       `yaml:"compileSdk" json:"compileSdk" toml:"compileSdk"`
	DefaultConfig  DefaultConfig   `yaml:"defaultConfig" json:"defaultConfig" toml:"defaultConfig"`
	CompileOptions CompileOptions  `yaml:"compileOptions,omitempty" json:"compileOptions,omitzero" toml:"compileOptions,omitempty"`
	KotlinOptions  KotlinOptions   `yaml:"kotlinOptions,omitempty" json:"kotlinOptions,omitzero" toml:"kotlinOptions,omitempty"`
	SigningConfigs []SigningConfig `yaml:"signingConfigs,omitempty" json:"signingConfigs,omitempty" toml:"signingConfigs,omitempty"`
	BuildTypes     BuildTypes      `yaml:"buildTypes,omitempty" json:"buildTypes,omitzero" toml:"buildTypes,omitempty"`
}

// DefaultConfig mirrors android.defaultConfig { }.
type DefaultConfig struct {
	ApplicationID string      `yaml:"applicationId" json:"applicationId" toml:"applicationId"`
	MinSdk        sdk.Level   `yaml:"minSdk" json:"minSdk" toml:"minSdk"`
	TargetSdk     sdk.Level   `yaml:"targetSdk" json:"targetSdk" toml:"targetSdk"`
	VersionCode   VersionCode `yaml:"versionCode,omitempty" json:"versionCode,omitzero" toml:"versionCode,omitempty"`
	VersionName   VersionName `yaml:"versionName,omitempty" json:"versionName,omitzero" toml:"versionName,omitempty"`
}

// CompileOptions mirrors android.compileOptions { }.
type CompileOptions struct {
	SourceCompatibility            JavaVersion `yaml:"sourceCompatibility,omitempty" json:"sourceCompatibility,omitempty" toml:"sourceCompatibility,omitempty"`
	TargetCompatibility            JavaVersion `yaml:"targetCompatibility,omitempty" json:"targetCompatibility,omitempty" toml:"targetCompatibility,omitempty"`
	IsCoreLibraryDesugaringEnabled bool        `yaml:"isCoreLibraryDesugaringEnabled,omitempty" json:"isCoreLibraryDesugaringEnabled,omitempty" toml:"isCoreLibraryDesugaringEnabled,omitempty"`
}

// KotlinOptions mirrors android.kotlinOptions { }.
type KotlinOptions struct {
	JvmTarget string `yaml:"jvmTarget,omitempty" json:"jvmTarget,omitempty" toml:"jvmTarget,omitempty"`
}

// SigningConfig declares a named signing profile. Secrets are never stored,
// only the names of the environment variables that hold them.
type SigningConfig struct {
	Name             string `yaml:"name" json:"name" toml:"name"`
	StoreFile        string `yaml:"storeFile,omitempty" json:"storeFile,omitempty" toml:"storeFile,omitempty"`
	StorePasswordEnv string `yaml:"storePasswordEnv,omitempty" json:"storePasswordEnv,omitempty" toml:"storePasswordEnv,omitempty"`
	KeyAlias         string `yaml:"keyAlias,omitempty" json:"keyAlias,omitempty" toml:"keyAlias,omitempty"`
	KeyPasswordEnv   string `yaml:"keyPasswordEnv,omitempty" json:"keyPasswordEnv,omitempty" toml:"keyPasswordEnv,omitempty"`
}

// BuildTypes mirrors android.buildTypes { }.
type BuildTypes struct {
	Release BuildType `yaml:"release,omitempty" json:"release,omitzero" toml:"release,omitempty"`
}

// BuildType holds the settings of a single build type.
type BuildType struct {
	// SigningConfig is the alias of the signing profile the build type reuses.
	SigningConfig string `yaml:"signingConfig,omitempty" json:"signingConfig,omitempty" toml:"signingConfig,omitempty"`
}

// Dependencies mirrors the module-level dependencies { } block.
type Dependencies struct {
	CoreLibraryDesugaring Coordinate `yaml:"coreLibraryDesugaring,omitempty" json:"coreLibraryDesugaring,omitempty" toml:"coreLibraryDesugaring,omitempty"`
}

// Flutter mirrors the flutter { } block.
type Flutter struct {
	// Source is the Flutter project root relative to android/app.
	Source string `yaml:"source,omitempty" json:"source,omitempty" toml:"source,omitempty"`
}

// ---------------------------------------------------------------------------
// Java language levels

// JavaVersion is a Gradle JavaVersion constant name.
type JavaVersion string

// Supported language levels.
const (
	Java8  JavaVersion = "VERSION_1_8"
	Java11 JavaVersion = "VERSION_11"
	Java17 JavaVersion = "VERSION_17"
	Java21 JavaVersion = "VERSION_21"
)

var javaVersions = []struct {
	version JavaVersion
	target  string
	aliases []string
}{
	{Java8, "1.8", []string{"8", "1.8", "VERSION_1_8", "VERSION_8"}},
	{Java11, "11", []string{"11", "VERSION_11"}},
	{Java17, "17", []string{"17", "VERSION_17"}},
	{Java21, "21", []string{"21", "VERSION_21"}},
}

// ParseJavaVersion accepts "17", "1.8", "VERSION_17" or "JavaVersion.VERSION_17".
func ParseJavaVersion(s string) (JavaVersion, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "JavaVersion.")
	for _, jv := range javaVersions {
		if slices.Contains(jv.aliases, s) {
			return jv.version, true
		}
	}
	return "", false
}

// Valid reports whether j is one of the supported constants.
func (j JavaVersion) Valid() bool {
	return j.JvmTarget() != ""
}

// JvmTarget returns the Kotlin jvmTarget string for j, or "" if j is unknown.
func (j JavaVersion) JvmTarget() string {
	for _, jv := range javaVersions {
		if jv.version == j {
			return jv.target
		}
	}
	return ""
}

// UnmarshalText normalizes known spellings and keeps unknown ones verbatim
// so validation can report them against the right field.
func (j *JavaVersion) UnmarshalText(text []byte) error {
	if v, ok := ParseJavaVersion(string(text)); ok {
		*j = v
		return nil
	}
	*j = JavaVersion(strings.TrimSpace(string(text)))
	return nil
}

// ---------------------------------------------------------------------------
// Externally supplied version values

// VersionCode is a literal release counter or a reference to a value the
// Flutter tool computes (flutter.versionCode).
type VersionCode struct {
	Code int
	Ref  string
}

// IsRef reports whether the value is resolved externally.
func (v VersionCode) IsRef() bool { return v.Ref != "" }

// IsZero reports whether the value is unset.
func (v VersionCode) IsZero() bool { return v.Code == 0 && v.Ref == "" }

func (v VersionCode) String() string {
	if v.IsRef() {
		return v.Ref
	}
	return strconv.Itoa(v.Code)
}

// UnmarshalText accepts an integer or a reference name.
func (v *VersionCode) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if n, err := strconv.Atoi(s); err == nil {
		*v = VersionCode{Code: n}
		return nil
	}
	*v = VersionCode{Ref: s}
	return nil
}

// MarshalJSON encodes literals as numbers and references as strings.
func (v VersionCode) MarshalJSON() ([]byte, error) {
	if v.IsRef() {
		return json.Marshal(v.Ref)
	}
	return json.Marshal(v.Code)
}

// MarshalYAML encodes literals as numbers and references as strings.
func (v VersionCode) MarshalYAML() (interface{}, error) {
	if v.IsRef() {
		return v.Ref, nil
	}
	return v.Code, nil
}

// MarshalText is used by encoders without a number/string choice (TOML).
func (v VersionCode) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// VersionName is a literal release name or a reference (flutter.versionName).
type VersionName struct {
	Name string
	Ref  string
}

// IsRef reports whether the value is resolved externally.
func (v VersionName) IsRef() bool { return v.Ref != "" }

// IsZero reports whether the value is unset.
func (v VersionName) IsZero() bool { return v.Name == "" && v.Ref == "" }

func (v VersionName) String() string {
	if v.IsRef() {
		return v.Ref
	}
	return v.Name
}

// UnmarshalText treats "flutter."-prefixed values as references.
func (v *VersionName) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if strings.HasPrefix(s, "flutter.") {
		*v = VersionName{Ref: s}
		return nil
	}
	*v = VersionName{Name: s}
	return nil
}

// MarshalJSON encodes the value as a string.
func (v VersionName) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// MarshalYAML encodes the value as a string.
func (v VersionName) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}

// MarshalText encodes the value as a string.
func (v VersionName) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// ---------------------------------------------------------------------------
// Maven coordinates

// Coordinate is a Maven coordinate in group:artifact:version form.
type Coordinate string

// Parts splits the coordinate into its three components.
func (c Coordinate) Parts() (group, artifact, version string, err error) {
	parts := strings.Split(string(c), ":")
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("coordinate %q must be group:artifact:version", string(c))
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return "", "", "", fmt.Errorf("coordinate %q has an empty component", string(c))
		}
	}
	return parts[0], parts[1], parts[2], nil
}

// ---------------------------------------------------------------------------

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	out := *p
	out.Plugins = slices.Clone(p.Plugins)
	out.Android.SigningConfigs = slices.Clone(p.Android.SigningConfigs)
	return &out
}

// SigningConfigNames returns every declared signing profile, the implicit
// debug profile first.
func (p *Profile) SigningConfigNames() []string {
	names := []string{DebugSigningConfig}
	for _, sc := range p.Android.SigningConfigs {
		if sc.Name != DebugSigningConfig {
			names = append(names, sc.Name)
		}
	}
	return names
}

// HasSigningConfig reports whether name is a declared signing profile.
func (p *Profile) HasSigningConfig(name string) bool {
	return slices.Contains(p.SigningConfigNames(), name)
}
