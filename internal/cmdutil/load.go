package cmdutil

import (
	"errors"
	"fmt"
	"path/filepath"

	oerrors "github.com/safespot/droidcfg/internal/errors"
	"github.com/safespot/droidcfg/internal/flutter"
	"github.com/safespot/droidcfg/internal/output"
	"github.com/safespot/droidcfg/internal/profile"
	"github.com/safespot/droidcfg/internal/sdk"
)

// LoadOptions configures Pipeline.Load.
type LoadOptions struct {
	// Project overrides the profile's flutter.source as the project root.
	Project string

	// Strict turns validation warnings into errors.
	Strict bool

	// MinTargetSdk is the store floor for targetSdk. Zero keeps the default.
	MinTargetSdk int

	// Overrides replace the version values read from the project.
	Overrides flutter.Overrides
}

// LoadResult is a profile taken through load, resolve and validate.
type LoadResult struct {
	Path string

	// Profile is the profile as written, before defaults.
	Profile *profile.Profile

	// Validated is set when the profile passed every check.
	Validated *profile.Validated

	// Project is nil when the Flutter project does not exist and the
	// profile does not need it.
	Project *flutter.Project

	Warnings []string
}

// Pipeline loads and validates profiles. CUE values are not safe for
// concurrent use, so goroutines each need their own Pipeline.
type Pipeline struct {
	schema *profile.Schema
	loader *profile.Loader
}

// NewPipeline compiles the profile schema once for all loads.
func NewPipeline() (*Pipeline, error) {
	schema, err := profile.NewSchema()
	if err != nil {
		return nil, fmt.Errorf("loading profile schema: %w", err)
	}
	return &Pipeline{schema: schema, loader: profile.NewLoader(schema)}, nil
}

// Schema returns the compiled profile schema.
func (pl *Pipeline) Schema() *profile.Schema { return pl.schema }

// Load reads the profile at path, opens its Flutter project and compiles it.
// The result carries warnings even when an error is returned.
func (pl *Pipeline) Load(path string, opts LoadOptions) (*LoadResult, error) {
	log := output.ProfileLogger(path)
	res := &LoadResult{Path: path}

	p, err := pl.loader.LoadFile(path)
	if err != nil {
		return res, err
	}
	res.Profile = p

	root := opts.Project
	if root == "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return res, fmt.Errorf("resolving %s: %w", path, err)
		}
		root = flutter.ResolveRoot(filepath.Dir(absPath), p.Flutter.Source)
	}

	project, err := flutter.Open(root, opts.Overrides)
	switch {
	case err == nil:
		res.Project = project
		log.Debug("flutter project", "root", project.Root())
	case errors.Is(err, oerrors.ErrNotFound) && !usesProjectValues(p):
		log.Debug("no flutter project, profile uses literal versions", "root", root)
	default:
		return res, err
	}

	compileOpts := profile.Options{Schema: pl.schema}
	if project != nil {
		compileOpts.Versions = project
	}
	if opts.MinTargetSdk > 0 {
		compileOpts.Validate = append(compileOpts.Validate, profile.WithMinTargetSdk(sdk.Level(opts.MinTargetSdk)))
	}

	validated, warnings, err := profile.Compile(p, compileOpts)
	res.Warnings = warnings
	if err != nil {
		return res, err
	}

	if opts.Strict && len(warnings) > 0 {
		return res, oerrors.NewValidationError(
			fmt.Sprintf("%d warning(s) treated as errors", len(warnings)),
			path, "", "Fix the warnings or run without --strict")
	}

	res.Validated = validated
	log.Debug("profile valid",
		"applicationId", validated.ApplicationID(),
		"versionCode", validated.VersionCode(),
		"versionName", validated.VersionName(),
	)
	return res, nil
}

// usesProjectValues reports whether p reads versionCode or versionName from
// the Flutter project once defaults are applied.
func usesProjectValues(p *profile.Profile) bool {
	dc := p.WithDefaults().Android.DefaultConfig
	return dc.VersionCode.IsRef() || dc.VersionName.IsRef()
}

// LoadFile reads the profile at path without resolving or validating it.
func (pl *Pipeline) LoadFile(path string) (*profile.Profile, error) {
	return pl.loader.LoadFile(path)
}
