// Package version provides version information for the droidcfg CLI.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/safespot/droidcfg/internal/flutter"
	"github.com/safespot/droidcfg/internal/sdk"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// cueModule is the module path of the CUE SDK.
const cueModule = "cuelang.org/go"

// CUESDKVersion is the CUE SDK version in go.mod. The build info value wins
// when the binary carries one.
const CUESDKVersion = "v0.15.4"

// Info contains version information.
type Info struct {
	// Version is the CLI version (set via ldflags).
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion"`

	// CUESDKVersion is the CUE SDK version the schemas are evaluated with.
	CUESDKVersion string `json:"cueSDKVersion"`

	// MaxAPILevel is the highest Android API level droidcfg knows by name.
	MaxAPILevel sdk.Level `json:"maxApiLevel"`

	// FlutterCompileSdk is the level flutter.compileSdkVersion imports as.
	FlutterCompileSdk sdk.Level `json:"flutterCompileSdk"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:           Version,
		GitCommit:         GitCommit,
		BuildDate:         BuildDate,
		GoVersion:         runtime.Version(),
		CUESDKVersion:     cueSDKVersion(),
		MaxAPILevel:       sdk.MaxKnown,
		FlutterCompileSdk: flutter.CompileSdkVersion,
	}
}

func cueSDKVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return CUESDKVersion
	}
	for _, dep := range bi.Deps {
		if dep.Path == cueModule {
			if dep.Replace != nil {
				return dep.Replace.Version
			}
			return dep.Version
		}
	}
	return CUESDKVersion
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("droidcfg:\n  Version:  %s\n  Build ID: %s/%s\n  Go:       %s\n\nCUE:\n  SDK Version: %s\n\nAndroid:\n  Known API levels: up to %s\n  Flutter compileSdk: %s",
		i.Version, i.BuildDate, i.GitCommit, i.GoVersion, i.CUESDKVersion, i.MaxAPILevel, i.FlutterCompileSdk)
}
