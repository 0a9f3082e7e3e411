package profile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	oerrors "github.com/safespot/droidcfg/internal/errors"
	"github.com/safespot/droidcfg/internal/sdk"
)

// MaxVersionCode is the largest versionCode Google Play accepts.
const MaxVersionCode = 2100000000

// DefaultMinTargetSdk is the lowest targetSdk the Play Store accepts for updates.
const DefaultMinTargetSdk sdk.Level = 34

// identifierRegex matches a reverse-DNS package name with at least two segments.
var identifierRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z][A-Za-z0-9_]*)+$`)

// Field paths used in validation messages.
const (
	fieldPlugins             = "plugins"
	fieldNamespace           = "android.namespace"
	fieldCompileSdk          = "android.compileSdk"
	fieldApplicationID       = "android.defaultConfig.applicationId"
	fieldMinSdk              = "android.defaultConfig.minSdk"
	fieldTargetSdk           = "android.defaultConfig.targetSdk"
	fieldVersionCode         = "android.defaultConfig.versionCode"
	fieldVersionName         = "android.defaultConfig.versionName"
	fieldSourceCompatibility = "android.compileOptions.sourceCompatibility"
	fieldTargetCompatibility = "android.compileOptions.targetCompatibility"
	fieldDesugaringEnabled   = "android.compileOptions.isCoreLibraryDesugaringEnabled"
	fieldJvmTarget           = "android.kotlinOptions.jvmTarget"
	fieldReleaseSigning      = "android.buildTypes.release.signingConfig"
	fieldDesugarDependency   = "dependencies.coreLibraryDesugaring"
)

// ValidationError is a single rejected field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("build profile validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Unwrap makes the collection match errors.Is(err, ErrValidation).
func (e ValidationErrors) Unwrap() error {
	return oerrors.ErrValidation
}

// Has reports whether any error was recorded for field.
func (e ValidationErrors) Has(field string) bool {
	for _, err := range e {
		if err.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationErrors) add(field, format string, args ...any) {
	*e = append(*e, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

type validateOptions struct {
	minTargetSdk sdk.Level
}

// ValidateOption configures Validate.
type ValidateOption func(*validateOptions)

// WithMinTargetSdk sets the targetSdk below which a store warning is raised.
func WithMinTargetSdk(level sdk.Level) ValidateOption {
	return func(o *validateOptions) { o.minTargetSdk = level }
}

// Validate checks every invariant of the profile. It returns warnings (soft
// issues) and a ValidationErrors value listing all rejected fields.
func Validate(p *Profile, opts ...ValidateOption) (warnings []string, err error) {
	o := validateOptions{minTargetSdk: DefaultMinTargetSdk}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	var errs ValidationErrors
	a := p.Android
	dc := a.DefaultConfig

	// ── Plugins ──────────────────────────────────────────────────────────

	seen := make(map[string]bool, len(p.Plugins))
	for _, id := range p.Plugins {
		if seen[id] {
			errs.add(fieldPlugins, "duplicate plugin %q", id)
		}
		seen[id] = true
	}
	if !seen[PluginAndroidApplication] {
		errs.add(fieldPlugins, "plugin %q is required", PluginAndroidApplication)
	}

	// ── Identifiers ──────────────────────────────────────────────────────

	checkIdentifier(&errs, fieldNamespace, "namespace", a.Namespace)
	checkIdentifier(&errs, fieldApplicationID, "applicationId", dc.ApplicationID)
	if strings.HasPrefix(dc.ApplicationID, "com.example.") {
		warnings = append(warnings, fmt.Sprintf("%s: %q uses the com.example namespace, which app stores reject", fieldApplicationID, dc.ApplicationID))
	}

	// ── SDK levels ───────────────────────────────────────────────────────

	levelsOK := checkLevel(&errs, fieldCompileSdk, "compileSdk", a.CompileSdk)
	levelsOK = checkLevel(&errs, fieldMinSdk, "minSdk", dc.MinSdk) && levelsOK
	levelsOK = checkLevel(&errs, fieldTargetSdk, "targetSdk", dc.TargetSdk) && levelsOK
	if levelsOK {
		if dc.MinSdk > dc.TargetSdk {
			errs.add(fieldMinSdk, "minSdk %s is above targetSdk %s", dc.MinSdk, dc.TargetSdk)
		}
		if dc.TargetSdk > a.CompileSdk {
			errs.add(fieldTargetSdk, "targetSdk %s is above compileSdk %s", dc.TargetSdk, a.CompileSdk)
		}
		if dc.TargetSdk < o.minTargetSdk {
			warnings = append(warnings, fmt.Sprintf("%s: %s is below the store minimum %s", fieldTargetSdk, dc.TargetSdk, o.minTargetSdk))
		}
	}

	// ── Versions ─────────────────────────────────────────────────────────

	switch {
	case dc.VersionCode.IsRef():
		if dc.VersionCode.Ref != RefVersionCode {
			errs.add(fieldVersionCode, "unknown reference %q (supported: %s)", dc.VersionCode.Ref, RefVersionCode)
		}
	default:
		if err := CheckVersionCode(dc.VersionCode.Code); err != nil {
			errs.add(fieldVersionCode, "%v", err)
		}
	}
	switch {
	case dc.VersionName.IsRef():
		if dc.VersionName.Ref != RefVersionName {
			errs.add(fieldVersionName, "unknown reference %q (supported: %s)", dc.VersionName.Ref, RefVersionName)
		}
	case strings.TrimSpace(dc.VersionName.Name) == "":
		errs.add(fieldVersionName, "must not be empty")
	}

	// ── Java / Kotlin levels ─────────────────────────────────────────────

	co := a.CompileOptions
	if !co.SourceCompatibility.Valid() {
		errs.add(fieldSourceCompatibility, "unsupported Java version %q (supported: %s)", co.SourceCompatibility, supportedJavaVersions())
	}
	if !co.TargetCompatibility.Valid() {
		errs.add(fieldTargetCompatibility, "unsupported Java version %q (supported: %s)", co.TargetCompatibility, supportedJavaVersions())
	} else if jvm := a.KotlinOptions.JvmTarget; jvm != co.TargetCompatibility.JvmTarget() {
		errs.add(fieldJvmTarget, "jvmTarget %q is inconsistent with targetCompatibility %s (want %q)",
			jvm, co.TargetCompatibility, co.TargetCompatibility.JvmTarget())
	}

	// ── Desugaring ───────────────────────────────────────────────────────

	dep := p.Dependencies.CoreLibraryDesugaring
	switch {
	case co.IsCoreLibraryDesugaringEnabled && dep == "":
		errs.add(fieldDesugarDependency, "desugaring is enabled but no coreLibraryDesugaring dependency is declared")
	case !co.IsCoreLibraryDesugaringEnabled && dep != "":
		errs.add(fieldDesugaringEnabled, "coreLibraryDesugaring dependency %q is declared but desugaring is disabled", dep)
	}
	if dep != "" {
		if w, err := checkDesugarCoordinate(dep); err != nil {
			errs.add(fieldDesugarDependency, "%v", err)
		} else if w != "" {
			warnings = append(warnings, fmt.Sprintf("%s: %s", fieldDesugarDependency, w))
		}
	}
	if levelsOK && dc.MinSdk < 26 && !co.IsCoreLibraryDesugaringEnabled &&
		co.SourceCompatibility.Valid() && co.SourceCompatibility != Java8 {
		warnings = append(warnings, fmt.Sprintf("%s: minSdk %s lacks java.time and other Java 8+ APIs; consider enabling desugaring",
			fieldDesugaringEnabled, dc.MinSdk))
	}

	// ── Signing ──────────────────────────────────────────────────────────

	names := make(map[string]bool, len(a.SigningConfigs))
	for i, sc := range a.SigningConfigs {
		field := fmt.Sprintf("android.signingConfigs[%d].name", i)
		switch {
		case strings.TrimSpace(sc.Name) == "":
			errs.add(field, "name is required")
		case names[sc.Name]:
			errs.add(field, "duplicate signing config %q", sc.Name)
		}
		names[sc.Name] = true
	}

	alias := a.BuildTypes.Release.SigningConfig
	switch {
	case alias == "":
		errs.add(fieldReleaseSigning, "signing config alias is required")
	case !p.HasSigningConfig(alias):
		errs.add(fieldReleaseSigning, "signing config %q is not declared (declared: %s)",
			alias, strings.Join(p.SigningConfigNames(), ", "))
	case alias == DebugSigningConfig:
		warnings = append(warnings, fmt.Sprintf("%s: release builds are signed with the debug signing config", fieldReleaseSigning))
	}

	if len(errs) > 0 {
		return warnings, errs
	}
	return warnings, nil
}

// CheckVersionCode reports whether n is a versionCode the Play Store accepts.
func CheckVersionCode(n int) error {
	if n < 1 || n > MaxVersionCode {
		return fmt.Errorf("versionCode %d is outside 1..%d", n, MaxVersionCode)
	}
	return nil
}

func checkIdentifier(errs *ValidationErrors, field, name, value string) {
	switch {
	case strings.TrimSpace(value) == "":
		errs.add(field, "%s is required", name)
	case !identifierRegex.MatchString(value):
		errs.add(field, "%s %q must be a reverse-DNS identifier (e.g. com.example.app)", name, value)
	}
}

func checkLevel(errs *ValidationErrors, field, name string, level sdk.Level) bool {
	if !level.Valid() {
		errs.add(field, "%s %d is outside the known API levels 1..%d", name, int(level), int(sdk.MaxKnown))
		return false
	}
	return true
}

// checkDesugarCoordinate validates the dependency coordinate. A non-empty
// warning means the coordinate is well formed but unusual.
func checkDesugarCoordinate(c Coordinate) (warning string, err error) {
	group, artifact, version, err := c.Parts()
	if err != nil {
		return "", err
	}
	if _, err := semver.NewVersion(version); err != nil {
		return "", fmt.Errorf("coordinate %q has an invalid version: %w", string(c), err)
	}
	if group != "com.android.tools" || !strings.HasPrefix(artifact, "desugar_jdk_libs") {
		return fmt.Sprintf("%q is not a com.android.tools:desugar_jdk_libs artifact", string(c)), nil
	}
	return "", nil
}

func supportedJavaVersions() string {
	names := make([]string, 0, len(javaVersions))
	for _, jv := range javaVersions {
		names = append(names, string(jv.version))
	}
	return strings.Join(names, ", ")
}
