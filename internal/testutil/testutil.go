// Package testutil provides test helpers for CLI tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/safespot/droidcfg/internal/profile"
)

// PubspecVersion is the version line FlutterApp writes when asked for a
// default pubspec: versionName 2.1.0, versionCode 42.
const PubspecVersion = "name: safe_spot\nversion: 2.1.0+42\n"

// droidcfgEnv lists every environment variable the CLI reads.
var droidcfgEnv = []string{
	"DROIDCFG_CONFIG",
	"DROIDCFG_PROFILE",
	"DROIDCFG_PROJECT",
	"DROIDCFG_STRICT",
	"DROIDCFG_STORE_MIN_TARGET_SDK",
	"DROIDCFG_LOG_TIMESTAMPS",
	"DROIDCFG_VERSION_CODE",
	"DROIDCFG_VERSION_NAME",
}

// IsolateEnv points HOME at a temporary directory and clears every
// DROIDCFG_* variable. It returns the new home directory.
func IsolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range droidcfgEnv {
		t.Setenv(key, "")
	}
	return home
}

// AppProfile returns the default profile with a store-ready application id.
func AppProfile() *profile.Profile {
	p := profile.Default()
	p.Android.Namespace = "com.safespot.app"
	p.Android.DefaultConfig.ApplicationID = "com.safespot.app"
	return p
}

// FlutterApp lays out a Flutter project in a temporary directory with p in
// android/app/droidcfg.yaml and returns the profile path. An empty pubspec
// leaves pubspec.yaml out.
func FlutterApp(t *testing.T, p *profile.Profile, pubspec string) string {
	t.Helper()
	root := t.TempDir()
	if pubspec != "" {
		WriteFile(t, root, "pubspec.yaml", pubspec)
	}
	path := filepath.Join(root, "android", "app", profile.DefaultFileName)
	if err := profile.WriteFile(path, p); err != nil {
		t.Fatalf("failed to write profile %s: %v", path, err)
	}
	return path
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}
