package flutter

import "github.com/safespot/droidcfg/internal/sdk"

// Levels the Flutter Gradle plugin exposes as flutter.compileSdkVersion,
// flutter.minSdkVersion and flutter.targetSdkVersion.
const (
	CompileSdkVersion sdk.Level = 35
	MinSdkVersion     sdk.Level = 21
	TargetSdkVersion  sdk.Level = 35
)

var levelRefs = map[string]sdk.Level{
	"flutter.compileSdkVersion": CompileSdkVersion,
	"flutter.minSdkVersion":     MinSdkVersion,
	"flutter.targetSdkVersion":  TargetSdkVersion,
}

// LevelRef returns the API level behind a flutter.*SdkVersion reference.
func LevelRef(ref string) (sdk.Level, bool) {
	level, ok := levelRefs[ref]
	return level, ok
}
