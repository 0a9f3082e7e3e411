package profile

// Defaults of the safe_spot application shell.
const (
	DefaultNamespace     = "com.example.safe_spot"
	DefaultCompileSdk    = 35
	DefaultMinSdk        = 21
	DefaultTargetSdk     = 35
	DefaultFlutterSource = "../.."

	// DefaultDesugarLibrary is the desugaring artifact the shell depends on.
	DefaultDesugarLibrary Coordinate = "com.android.tools:desugar_jdk_libs:1.2.2"
)

// DefaultPlugins returns the plugins applied by a Flutter application module.
func DefaultPlugins() []string {
	return []string{PluginAndroidApplication, PluginKotlinAndroid, PluginFlutterGradle}
}

// Default returns the profile equivalent to the application's build.gradle.kts.
func Default() *Profile {
	return &Profile{
		Plugins: DefaultPlugins(),
		Android: Android{
			Namespace:  DefaultNamespace,
			CompileSdk: DefaultCompileSdk,
			DefaultConfig: DefaultConfig{
				ApplicationID: DefaultNamespace,
				MinSdk:        DefaultMinSdk,
				TargetSdk:     DefaultTargetSdk,
				VersionCode:   VersionCode{Ref: RefVersionCode},
				VersionName:   VersionName{Ref: RefVersionName},
			},
			CompileOptions: CompileOptions{
				SourceCompatibility:            Java17,
				TargetCompatibility:            Java17,
				IsCoreLibraryDesugaringEnabled: true,
			},
			KotlinOptions: KotlinOptions{JvmTarget: "17"},
			BuildTypes: BuildTypes{
				Release: BuildType{SigningConfig: DebugSigningConfig},
			},
		},
		Dependencies: Dependencies{CoreLibraryDesugaring: DefaultDesugarLibrary},
		Flutter:      Flutter{Source: DefaultFlutterSource},
	}
}

// WithDefaults returns a copy of p with framework defaults filled in for
// fields the author left unset. Identifiers and SDK levels are never defaulted.
func (p *Profile) WithDefaults() *Profile {
	out := p.Clone()

	if out.Plugins == nil {
		out.Plugins = DefaultPlugins()
	}

	dc := &out.Android.DefaultConfig
	if dc.VersionCode.IsZero() {
		dc.VersionCode = VersionCode{Ref: RefVersionCode}
	}
	if dc.VersionName.IsZero() {
		dc.VersionName = VersionName{Ref: RefVersionName}
	}

	co := &out.Android.CompileOptions
	if co.SourceCompatibility == "" {
		co.SourceCompatibility = Java17
	}
	if co.TargetCompatibility == "" {
		co.TargetCompatibility = co.SourceCompatibility
	}
	if out.Android.KotlinOptions.JvmTarget == "" {
		out.Android.KotlinOptions.JvmTarget = co.TargetCompatibility.JvmTarget()
	}

	if out.Android.BuildTypes.Release.SigningConfig == "" {
		out.Android.BuildTypes.Release.SigningConfig = DebugSigningConfig
	}

	if out.Flutter.Source == "" {
		out.Flutter.Source = DefaultFlutterSource
	}

	return out
}
