// Package gradle converts build profiles to and from the Gradle Kotlin DSL
// of an Android application module (android/app/build.gradle.kts).
package gradle

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/safespot/droidcfg/internal/profile"
	"github.com/safespot/droidcfg/internal/sdk"
)

// FileName is the module build file droidcfg renders and imports.
const FileName = "build.gradle.kts"

//go:embed templates/build.gradle.kts.tmpl
var templateFS embed.FS

var buildTemplate = template.Must(
	template.New("build.gradle.kts.tmpl").
		Funcs(template.FuncMap{
			"api":          func(l sdk.Level) int { return int(l) },
			"kstr":         kotlinString,
			"versionCode":  versionCodeExpr,
			"versionName":  versionNameExpr,
			"signingBlock": signingBlock,
		}).
		ParseFS(templateFS, "templates/build.gradle.kts.tmpl"),
)

// Render writes p as a build.gradle.kts file. The layout follows the file the
// Flutter tool generates, so a rendered file diffs cleanly against it.
func Render(w io.Writer, p *profile.Profile) error {
	var buf bytes.Buffer
	if err := buildTemplate.Execute(&buf, p); err != nil {
		return fmt.Errorf("rendering %s: %w", FileName, err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// kotlinString quotes v as a Kotlin string literal.
func kotlinString(v any) string {
	s := fmt.Sprint(v)
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '$':
			sb.WriteString(`\$`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func versionCodeExpr(v profile.VersionCode) string {
	if v.IsRef() {
		return v.Ref
	}
	return strconv.Itoa(v.Code)
}

func versionNameExpr(v profile.VersionName) string {
	if v.IsRef() {
		return v.Ref
	}
	return kotlinString(v.Name)
}

func signingBlock(name string) string {
	if name == profile.DebugSigningConfig {
		return "getByName(" + kotlinString(name) + ")"
	}
	return "create(" + kotlinString(name) + ")"
}
