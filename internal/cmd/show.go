package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/safespot/droidcfg/internal/cmdutil"
	"github.com/safespot/droidcfg/internal/flutter"
	"github.com/safespot/droidcfg/internal/output"
	"github.com/safespot/droidcfg/internal/profile"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	var outputFlags cmdutil.OutputFlags

	cmd := &cobra.Command{
		Use:   "show [profile]",
		Short: "Print the resolved profile",
		Long: `Print a build profile with defaults applied and version references
resolved from the Flutter project.

The table format also shows where each value came from and the SDK
locations recorded in android/local.properties.

Examples:
  # Print the default profile as YAML
  droidcfg show

  # Show values and their sources
  droidcfg show -o table android/app/droidcfg.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args, &outputFlags)
		},
	}

	outputFlags.AddTo(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string, outputFlags *cmdutil.OutputFlags) error {
	format, err := outputFlags.Parsed()
	if err != nil {
		return cmdutil.Exit(err, false)
	}

	opts, err := loadOptions()
	if err != nil {
		return cmdutil.Exit(err, false)
	}

	pl, err := cmdutil.NewPipeline()
	if err != nil {
		return cmdutil.Exit(err, false)
	}

	path := cmdutil.ResolveProfilePath(args, GetSettings().DefaultProfile)
	res, err := pl.Load(path, opts)
	if res != nil {
		cmdutil.PrintWarnings(path, res.Warnings)
	}
	if err != nil {
		cmdutil.PrintLoadError(path, err)
		return cmdutil.Exit(err, true)
	}

	out := cmd.OutOrStdout()
	switch format {
	case output.FormatTable:
		rows, err := fieldRows(res)
		if err != nil {
			return cmdutil.Exit(err, false)
		}
		fmt.Fprintln(out, output.RenderFieldTable(rows))
		return nil
	default:
		return profile.Encode(out, res.Validated.Resolved(), profile.Format(format))
	}
}

// Sources reported for profile fields that do not come from the project.
const (
	sourceProfile = "profile"
	sourceDefault = "default"
)

func fieldSource(set bool) string {
	if set {
		return sourceProfile
	}
	return sourceDefault
}

// fieldRows lists the effective values of a loaded profile.
func fieldRows(res *cmdutil.LoadResult) ([]output.FieldRow, error) {
	raw := res.Profile
	v := res.Validated
	p := v.Profile()
	a := p.Android
	dc := a.DefaultConfig

	codeSource, nameSource := sourceProfile, sourceProfile
	if dc.VersionCode.IsRef() || dc.VersionName.IsRef() {
		versions, err := res.Project.Versions()
		if err != nil {
			return nil, err
		}
		if dc.VersionCode.IsRef() {
			codeSource = string(versions.CodeSource)
		}
		if dc.VersionName.IsRef() {
			nameSource = string(versions.NameSource)
		}
	}

	rawCo := raw.Android.CompileOptions
	rows := []output.FieldRow{
		{Field: "namespace", Value: a.Namespace, Source: sourceProfile},
		{Field: "applicationId", Value: dc.ApplicationID, Source: sourceProfile},
		{Field: "compileSdk", Value: a.CompileSdk.String(), Source: sourceProfile},
		{Field: "minSdk", Value: dc.MinSdk.String(), Source: sourceProfile},
		{Field: "targetSdk", Value: dc.TargetSdk.String(), Source: sourceProfile},
		{Field: "versionCode", Value: strconv.Itoa(v.VersionCode()), Source: codeSource},
		{Field: "versionName", Value: v.VersionName(), Source: nameSource},
		{Field: "sourceCompatibility", Value: string(a.CompileOptions.SourceCompatibility), Source: fieldSource(rawCo.SourceCompatibility != "")},
		{Field: "targetCompatibility", Value: string(a.CompileOptions.TargetCompatibility), Source: fieldSource(rawCo.TargetCompatibility != "")},
		{Field: "jvmTarget", Value: a.KotlinOptions.JvmTarget, Source: fieldSource(raw.Android.KotlinOptions.JvmTarget != "")},
		{Field: "coreLibraryDesugaring", Value: desugaring(p), Source: sourceProfile},
		{Field: "release signingConfig", Value: a.BuildTypes.Release.SigningConfig, Source: fieldSource(raw.Android.BuildTypes.Release.SigningConfig != "")},
		{Field: "flutter source", Value: p.Flutter.Source, Source: fieldSource(raw.Flutter.Source != "")},
	}

	if res.Project != nil {
		rows = append(rows,
			output.FieldRow{Field: "project root", Value: res.Project.Root(), Source: sourceProfile},
			output.FieldRow{Field: "flutter sdk", Value: orNone(res.Project.FlutterSDK()), Source: flutter.LocalPropertiesFile},
			output.FieldRow{Field: "android sdk", Value: orNone(res.Project.AndroidSDK()), Source: flutter.LocalPropertiesFile},
		)
		if ps := res.Project.Pubspec(); ps != nil {
			rows = append(rows,
				output.FieldRow{Field: "flutter app", Value: orNone(ps.Name), Source: flutter.PubspecFile},
				output.FieldRow{Field: "dart sdk", Value: orNone(ps.Environment["sdk"]), Source: flutter.PubspecFile},
			)
		}
	}

	return rows, nil
}

func desugaring(p *profile.Profile) string {
	if !p.Android.CompileOptions.IsCoreLibraryDesugaringEnabled {
		return "disabled"
	}
	return string(p.Dependencies.CoreLibraryDesugaring)
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
