package gradle

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/safespot/droidcfg/internal/errors"
	"github.com/safespot/droidcfg/internal/profile"
)

// shellBuildFile is the module build file of the safe_spot application shell.
const shellBuildFile = `plugins {
    id("com.android.application")
    id("kotlin-android")
    id("dev.flutter.flutter-gradle-plugin")
}

android {
    namespace = "com.example.safe_spot"
    compileSdk = 35

    defaultConfig {
        applicationId = "com.example.safe_spot"
        minSdk = 21
        targetSdk = 35
        versionCode = flutter.versionCode
        versionName = flutter.versionName
    }

    compileOptions {
        sourceCompatibility = JavaVersion.VERSION_17 // Updated to 17
        targetCompatibility = JavaVersion.VERSION_17 // Updated to 17
        isCoreLibraryDesugaringEnabled = true
    }

    kotlinOptions {
        jvmTarget = "17" // Updated to match Java version
    }

    buildTypes {
        release {
            signingConfig = signingConfigs.getByName("debug")
        }
    }
}

dependencies {
    coreLibraryDesugaring("com.android.tools:desugar_jdk_libs:1.2.2")
}

flutter {
    source = "../.."
}
`

func stripComments(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, " //"); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	return strings.Join(lines, "\n")
}

func TestParseShellBuildFile(t *testing.T) {
	doc, err := Parse(strings.NewReader(shellBuildFile), FileName)
	require.NoError(t, err)

	assert.Equal(t, profile.Default(), doc.Profile)
	assert.Empty(t, doc.Unrecognized)
	assert.Empty(t, doc.Warnings)
}

func TestRenderDefaultMatchesShellBuildFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, profile.Default()))

	assert.Equal(t, stripComments(shellBuildFile), buf.String())
}

func signedProfile() *profile.Profile {
	p := profile.Default()
	p.Android.Namespace = "com.safespot.app"
	p.Android.DefaultConfig.ApplicationID = "com.safespot.app"
	p.Android.DefaultConfig.MinSdk = 26
	p.Android.DefaultConfig.VersionCode = profile.VersionCode{Code: 204}
	p.Android.DefaultConfig.VersionName = profile.VersionName{Name: `2.0.4 "$beta"`}
	p.Android.CompileOptions = profile.CompileOptions{
		SourceCompatibility: profile.Java11,
		TargetCompatibility: profile.Java11,
	}
	p.Android.KotlinOptions.JvmTarget = "11"
	p.Android.SigningConfigs = []profile.SigningConfig{
		{Name: "debug"},
		{
			Name:             "upload",
			StoreFile:        `C:\keys\upload.jks`,
			StorePasswordEnv: "UPLOAD_STORE_PASSWORD",
			KeyAlias:         "upload",
			KeyPasswordEnv:   "UPLOAD_KEY_PASSWORD",
		},
	}
	p.Android.BuildTypes.Release.SigningConfig = "upload"
	p.Dependencies = profile.Dependencies{}
	return p
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		profile *profile.Profile
	}{
		{name: "default", profile: profile.Default()},
		{name: "signed release with literals", profile: signedProfile()},
		{name: "minimal", profile: &profile.Profile{
			Android: profile.Android{
				Namespace:  "org.safespot.lite",
				CompileSdk: 34,
				DefaultConfig: profile.DefaultConfig{
					ApplicationID: "org.safespot.lite",
					MinSdk:        24,
					TargetSdk:     34,
				},
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, tt.profile))

			doc, err := Parse(&buf, FileName)
			require.NoError(t, err)
			assert.Equal(t, tt.profile, doc.Profile)
			assert.Empty(t, doc.Unrecognized)
		})
	}
}

func TestRenderSigningConfigs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, signedProfile()))
	out := buf.String()

	assert.Contains(t, out, `getByName("debug") {`)
	assert.Contains(t, out, `create("upload") {`)
	assert.Contains(t, out, `storeFile = file("C:\\keys\\upload.jks")`)
	assert.Contains(t, out, `storePassword = System.getenv("UPLOAD_STORE_PASSWORD")`)
	assert.Contains(t, out, `signingConfig = signingConfigs.getByName("upload")`)
	assert.Contains(t, out, `versionName = "2.0.4 \"\$beta\""`)
	assert.NotContains(t, out, "dependencies {")
	assert.NotContains(t, out, "isCoreLibraryDesugaringEnabled")
}

func TestParseFlutterTemplate(t *testing.T) {
	src := `plugins {
    id("com.android.application")
    id("kotlin-android")
    // The Flutter Gradle Plugin must be applied after the Android and Kotlin Gradle plugins.
    id("dev.flutter.flutter-gradle-plugin")
}

android {
    namespace = "com.safespot.app"
    compileSdk = flutter.compileSdkVersion
    ndkVersion = flutter.ndkVersion

    compileOptions {
        sourceCompatibility = JavaVersion.VERSION_11
        targetCompatibility = JavaVersion.VERSION_11
    }

    kotlinOptions {
        jvmTarget = JavaVersion.VERSION_11.toString()
    }

    defaultConfig {
        /* Specify your own unique Application ID
           (https://developer.android.com/studio/build/application-id.html). */
        applicationId = "com.safespot.app"
        minSdk = flutter.minSdkVersion
        targetSdk = flutter.targetSdkVersion
        versionCode = flutter.versionCode
        versionName = flutter.versionName
    }

    buildTypes {
        release {
            signingConfig = signingConfigs
                .getByName("debug")
            isMinifyEnabled = false
        }
    }

    packaging {
        resources { excludes += "/META-INF/{AL2.0,LGPL2.1}" }
    }
}

flutter {
    source = "../.."
}
`

	doc, err := Parse(strings.NewReader(src), FileName)
	require.NoError(t, err)

	p := doc.Profile
	assert.Equal(t, profile.DefaultPlugins(), p.Plugins)
	assert.EqualValues(t, 35, p.Android.CompileSdk)
	assert.EqualValues(t, 21, p.Android.DefaultConfig.MinSdk)
	assert.EqualValues(t, 35, p.Android.DefaultConfig.TargetSdk)
	assert.Equal(t, profile.Java11, p.Android.CompileOptions.SourceCompatibility)
	assert.Equal(t, "11", p.Android.KotlinOptions.JvmTarget)
	assert.Equal(t, "debug", p.Android.BuildTypes.Release.SigningConfig)

	require.Len(t, doc.Unrecognized, 3)
	assert.Equal(t, Statement{Line: 11, Text: "ndkVersion = flutter.ndkVersion"}, doc.Unrecognized[0])
	assert.Equal(t, "isMinifyEnabled = false", doc.Unrecognized[1].Text)
	assert.Equal(t, "packaging { ... }", doc.Unrecognized[2].Text)
	assert.Len(t, doc.Warnings, 3)
}

func TestParseLiteralPasswordWarns(t *testing.T) {
	src := `android {
    signingConfigs {
        create("upload") {
            storePassword = "hunter2"
        }
    }
}
`
	doc, err := Parse(strings.NewReader(src), FileName)
	require.NoError(t, err)

	require.Len(t, doc.Profile.Android.SigningConfigs, 1)
	assert.Empty(t, doc.Profile.Android.SigningConfigs[0].StorePasswordEnv)
	require.Len(t, doc.Warnings, 1)
	assert.Contains(t, doc.Warnings[0], "storePassword")
	assert.Len(t, doc.Unrecognized, 1)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
		wantLoc string
	}{
		{name: "unclosed block", src: "android {\n    namespace = \"a.b\"\n", wantMsg: `block "android" is never closed`, wantLoc: "build.gradle.kts:1"},
		{name: "stray brace", src: "android {\n}\n}\n", wantMsg: "unexpected '}'", wantLoc: "build.gradle.kts:3"},
		{name: "unterminated string", src: "android {\n    namespace = \"a.b\n}\n", wantMsg: "unterminated string", wantLoc: "build.gradle.kts:2"},
		{name: "unterminated comment", src: "/* header\nandroid {}\n", wantMsg: "unterminated block comment", wantLoc: "build.gradle.kts:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src), FileName)
			require.Error(t, err)
			assert.ErrorIs(t, err, oerrors.ErrParse)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Contains(t, err.Error(), tt.wantLoc)
		})
	}
}

func TestParseBracesInStringsAndComments(t *testing.T) {
	src := `flutter {
    // closing } in a comment
    source = "../{app}" /* and { here */
}
`
	doc, err := Parse(strings.NewReader(src), FileName)
	require.NoError(t, err)
	assert.Equal(t, "../{app}", doc.Profile.Flutter.Source)
}

func TestParseStringTemplateIsNotImported(t *testing.T) {
	src := `android {
    namespace = "com.safespot.${flavor}"
}
`
	doc, err := Parse(strings.NewReader(src), FileName)
	require.NoError(t, err)
	assert.Empty(t, doc.Profile.Android.Namespace)
	require.Len(t, doc.Unrecognized, 1)
	assert.Equal(t, 2, doc.Unrecognized[0].Line)
}

func TestKotlinString(t *testing.T) {
	assert.Equal(t, `"plain"`, kotlinString("plain"))
	assert.Equal(t, `"a\"b\\c\$d"`, kotlinString(`a"b\c$d`))
	assert.Equal(t, `"com.android.tools:desugar_jdk_libs:1.2.2"`, kotlinString(profile.DefaultDesugarLibrary))
	assert.Equal(t, `a"b\c$d`, unescapeKotlin(`a\"b\\c\$d`))
}

func TestParseInvalidVersionLiteralsAreNotImported(t *testing.T) {
	src := `android {
    defaultConfig {
        versionCode = 0
        versionName = ""
    }
}
`
	doc, err := Parse(strings.NewReader(src), FileName)
	require.NoError(t, err)

	assert.True(t, doc.Profile.Android.DefaultConfig.VersionCode.IsZero())
	assert.True(t, doc.Profile.Android.DefaultConfig.VersionName.IsZero())
	require.Len(t, doc.Unrecognized, 2)
	assert.Equal(t, Statement{Line: 3, Text: "versionCode = 0"}, doc.Unrecognized[0])
	assert.Equal(t, Statement{Line: 4, Text: `versionName = ""`}, doc.Unrecognized[1])
}
