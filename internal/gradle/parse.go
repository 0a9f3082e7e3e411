package gradle

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/safespot/droidcfg/internal/flutter"
	"github.com/safespot/droidcfg/internal/profile"
	"github.com/safespot/droidcfg/internal/sdk"
)

// Statement is a line of the build script that has no profile equivalent.
type Statement struct {
	Line int
	Text string
}

func (s Statement) String() string {
	return fmt.Sprintf("line %d: %s", s.Line, s.Text)
}

// Document is an imported build script.
type Document struct {
	Profile *profile.Profile

	// Unrecognized lists statements and blocks that were skipped.
	Unrecognized []Statement

	// Warnings lists values that were imported with a substitution, such as
	// flutter.minSdkVersion replaced by the level it stands for.
	Warnings []string
}

var (
	assignRe   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.+)$`)
	stringRe   = regexp.MustCompile(`^"((?:[^"\\]|\\.)*)"$`)
	callArgRe  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)\(\s*"((?:[^"\\]|\\.)*)"\s*\)$`)
	javaVerRe  = regexp.MustCompile(`^JavaVersion\.(VERSION_[0-9_]+)(\.toString\(\))?$`)
	signingRef = regexp.MustCompile(`^signingConfigs\s*\.\s*getByName\(\s*"((?:[^"\\]|\\.)*)"\s*\)$`)
)

// Parse imports a build.gradle.kts script. Statements droidcfg does not model
// are kept in Document.Unrecognized rather than failing the import.
func Parse(r io.Reader, name string) (*Document, error) {
	events, err := scan(r, name)
	if err != nil {
		return nil, err
	}

	p := &parser{doc: &Document{Profile: &profile.Profile{}}, signing: -1}
	for _, ev := range events {
		switch ev.kind {
		case eventOpen:
			p.open(ev)
		case eventClose:
			p.close()
		case eventStatement:
			p.statement(ev)
		}
	}
	return p.doc, nil
}

type parser struct {
	doc *Document

	// path holds the normalized names of the open blocks.
	path []string

	// skip counts nested blocks inside an unrecognized block.
	skip int

	// signing is the index of the signing config being read, or -1.
	signing int
}

func (p *parser) key() string { return strings.Join(p.path, "/") }

func (p *parser) unrecognized(ev event, text string) {
	p.doc.Unrecognized = append(p.doc.Unrecognized, Statement{Line: ev.line, Text: text})
}

func (p *parser) warnf(ev event, format string, args ...any) {
	p.doc.Warnings = append(p.doc.Warnings, fmt.Sprintf("line %d: ", ev.line)+fmt.Sprintf(format, args...))
}

func (p *parser) open(ev event) {
	if p.skip > 0 {
		p.skip++
		return
	}

	name := ev.text
	parent := p.key()

	switch {
	case parent == "" && (name == "plugins" || name == "android" || name == "dependencies" || name == "flutter"):
	case parent == "android" && (name == "defaultConfig" || name == "compileOptions" ||
		name == "kotlinOptions" || name == "signingConfigs" || name == "buildTypes"):
	case parent == "android/signingConfigs":
		sc, ok := signingConfigName(name)
		if !ok {
			p.skipBlock(ev)
			return
		}
		cfgs := &p.doc.Profile.Android.SigningConfigs
		*cfgs = append(*cfgs, profile.SigningConfig{Name: sc})
		p.signing = len(*cfgs) - 1
		name = "signing"
	case parent == "android/buildTypes" && (name == "release" || name == `getByName("release")`):
		name = "release"
	default:
		p.skipBlock(ev)
		return
	}

	p.path = append(p.path, name)
}

func (p *parser) skipBlock(ev event) {
	p.unrecognized(ev, ev.text+" { ... }")
	p.skip = 1
}

func (p *parser) close() {
	if p.skip > 0 {
		p.skip--
		return
	}
	if len(p.path) > 0 {
		if p.path[len(p.path)-1] == "signing" {
			p.signing = -1
		}
		p.path = p.path[:len(p.path)-1]
	}
}

func (p *parser) statement(ev event) {
	if p.skip > 0 {
		return
	}

	var ok bool
	switch p.key() {
	case "plugins":
		ok = p.plugin(ev)
	case "android":
		ok = p.android(ev)
	case "android/defaultConfig":
		ok = p.defaultConfig(ev)
	case "android/compileOptions":
		ok = p.compileOptions(ev)
	case "android/kotlinOptions":
		ok = p.kotlinOptions(ev)
	case "android/signingConfigs/signing":
		ok = p.signingConfig(ev)
	case "android/buildTypes/release":
		ok = p.release(ev)
	case "dependencies":
		ok = p.dependency(ev)
	case "flutter":
		ok = p.flutterBlock(ev)
	}

	if !ok {
		p.unrecognized(ev, ev.text)
	}
}

func (p *parser) plugin(ev event) bool {
	fn, arg, ok := callArg(ev.text)
	if !ok || fn != "id" {
		return false
	}
	p.doc.Profile.Plugins = append(p.doc.Profile.Plugins, arg)
	return true
}

func (p *parser) android(ev event) bool {
	key, value, ok := assignment(ev.text)
	if !ok {
		return false
	}
	a := &p.doc.Profile.Android
	switch key {
	case "namespace":
		a.Namespace, ok = kotlinStringValue(value)
		return ok
	case "compileSdk":
		a.CompileSdk, ok = p.level(ev, value)
		return ok
	}
	return false
}

func (p *parser) defaultConfig(ev event) bool {
	key, value, ok := assignment(ev.text)
	if !ok {
		return false
	}
	dc := &p.doc.Profile.Android.DefaultConfig
	switch key {
	case "applicationId":
		dc.ApplicationID, ok = kotlinStringValue(value)
		return ok
	case "minSdk":
		dc.MinSdk, ok = p.level(ev, value)
		return ok
	case "targetSdk":
		dc.TargetSdk, ok = p.level(ev, value)
		return ok
	case "versionCode":
		if value == profile.RefVersionCode {
			dc.VersionCode = profile.VersionCode{Ref: value}
			return true
		}
		n, err := strconv.Atoi(value)
		if err != nil || profile.CheckVersionCode(n) != nil {
			return false
		}
		dc.VersionCode = profile.VersionCode{Code: n}
		return true
	case "versionName":
		if value == profile.RefVersionName {
			dc.VersionName = profile.VersionName{Ref: value}
			return true
		}
		s, ok := kotlinStringValue(value)
		if !ok || strings.TrimSpace(s) == "" {
			return false
		}
		dc.VersionName = profile.VersionName{Name: s}
		return true
	}
	return false
}

func (p *parser) compileOptions(ev event) bool {
	key, value, ok := assignment(ev.text)
	if !ok {
		return false
	}
	co := &p.doc.Profile.Android.CompileOptions
	switch key {
	case "sourceCompatibility":
		co.SourceCompatibility, ok = javaVersionValue(value)
		return ok
	case "targetCompatibility":
		co.TargetCompatibility, ok = javaVersionValue(value)
		return ok
	case "isCoreLibraryDesugaringEnabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false
		}
		co.IsCoreLibraryDesugaringEnabled = b
		return true
	}
	return false
}

func (p *parser) kotlinOptions(ev event) bool {
	key, value, ok := assignment(ev.text)
	if !ok || key != "jvmTarget" {
		return false
	}
	if s, ok := kotlinStringValue(value); ok {
		p.doc.Profile.Android.KotlinOptions.JvmTarget = s
		return true
	}
	if m := javaVerRe.FindStringSubmatch(value); m != nil && m[2] != "" {
		p.doc.Profile.Android.KotlinOptions.JvmTarget = profile.JavaVersion(m[1]).JvmTarget()
		return p.doc.Profile.Android.KotlinOptions.JvmTarget != ""
	}
	return false
}

func (p *parser) signingConfig(ev event) bool {
	if p.signing < 0 {
		return false
	}
	key, value, ok := assignment(ev.text)
	if !ok {
		return false
	}
	sc := &p.doc.Profile.Android.SigningConfigs[p.signing]

	switch key {
	case "storeFile":
		if fn, arg, ok := callArg(value); ok && fn == "file" {
			sc.StoreFile = arg
			return true
		}
	case "keyAlias":
		sc.KeyAlias, ok = kotlinStringValue(value)
		return ok
	case "storePassword", "keyPassword":
		fn, arg, ok := callArg(value)
		if ok && fn == "System.getenv" {
			if key == "storePassword" {
				sc.StorePasswordEnv = arg
			} else {
				sc.KeyPasswordEnv = arg
			}
			return true
		}
		if _, literal := kotlinStringValue(value); literal {
			p.warnf(ev, "%s of signing config %q is a literal and was not imported; read it from an environment variable", key, sc.Name)
		}
	}
	return false
}

func (p *parser) release(ev event) bool {
	key, value, ok := assignment(ev.text)
	if !ok || key != "signingConfig" {
		return false
	}
	m := signingRef.FindStringSubmatch(value)
	if m == nil {
		return false
	}
	p.doc.Profile.Android.BuildTypes.Release.SigningConfig = unescapeKotlin(m[1])
	return true
}

func (p *parser) dependency(ev event) bool {
	fn, arg, ok := callArg(ev.text)
	if !ok || fn != "coreLibraryDesugaring" {
		return false
	}
	p.doc.Profile.Dependencies.CoreLibraryDesugaring = profile.Coordinate(arg)
	return true
}

func (p *parser) flutterBlock(ev event) bool {
	key, value, ok := assignment(ev.text)
	if !ok || key != "source" {
		return false
	}
	p.doc.Profile.Flutter.Source, ok = kotlinStringValue(value)
	return ok
}

// level reads an API level literal or a flutter.*SdkVersion reference.
func (p *parser) level(ev event, value string) (sdk.Level, bool) {
	if n, err := strconv.Atoi(value); err == nil {
		return sdk.Level(n), true
	}
	if level, ok := flutter.LevelRef(value); ok {
		p.warnf(ev, "%s imported as %s, the level the Flutter Gradle plugin currently supplies", value, level)
		return level, true
	}
	return 0, false
}

func assignment(text string) (key, value string, ok bool) {
	m := assignRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

func callArg(text string) (fn, arg string, ok bool) {
	m := callArgRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", "", false
	}
	return m[1], unescapeKotlin(m[2]), true
}

func kotlinStringValue(value string) (string, bool) {
	m := stringRe.FindStringSubmatch(value)
	if m == nil || strings.Contains(m[1], "${") || unescapedDollar(m[1]) {
		return "", false
	}
	return unescapeKotlin(m[1]), true
}

// unescapedDollar reports whether s contains a string template ($name).
func unescapedDollar(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '$':
			return true
		}
	}
	return false
}

func unescapeKotlin(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			sb.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

func javaVersionValue(value string) (profile.JavaVersion, bool) {
	m := javaVerRe.FindStringSubmatch(value)
	if m == nil || m[2] != "" {
		return "", false
	}
	if v, ok := profile.ParseJavaVersion(m[1]); ok {
		return v, true
	}
	return profile.JavaVersion(m[1]), true
}

func signingConfigName(header string) (string, bool) {
	fn, arg, ok := callArg(header)
	if !ok {
		return "", false
	}
	switch fn {
	case "create", "getByName", "register", "maybeCreate":
		return arg, true
	}
	return "", false
}
