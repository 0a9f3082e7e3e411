package profile

import (
	"fmt"
	"strings"
)

// VersionSource supplies the values behind flutter.versionCode and
// flutter.versionName. The Flutter project implements it.
type VersionSource interface {
	VersionCode() (int, error)
	VersionName() (string, error)
}

// Validated is a profile that passed every check. It is immutable: accessors
// return copies.
type Validated struct {
	profile     *Profile
	versionCode int
	versionName string
}

// Profile returns a copy of the validated profile, references unresolved.
func (v *Validated) Profile() *Profile { return v.profile.Clone() }

// VersionCode returns the resolved versionCode.
func (v *Validated) VersionCode() int { return v.versionCode }

// VersionName returns the resolved versionName.
func (v *Validated) VersionName() string { return v.versionName }

// Resolved returns a copy of the profile with version references replaced by
// their resolved values.
func (v *Validated) Resolved() *Profile {
	out := v.profile.Clone()
	out.Android.DefaultConfig.VersionCode = VersionCode{Code: v.versionCode}
	out.Android.DefaultConfig.VersionName = VersionName{Name: v.versionName}
	return out
}

// ApplicationID returns the distributable package id.
func (v *Validated) ApplicationID() string { return v.profile.Android.DefaultConfig.ApplicationID }

// Options configures Compile.
type Options struct {
	// Versions resolves external version references. May be nil when the
	// profile only uses literals.
	Versions VersionSource

	// Schema, when set, runs the CUE shape check after Go validation.
	Schema *Schema

	// Validate holds extra validation options.
	Validate []ValidateOption
}

// Compile applies defaults, validates, resolves external versions, and wraps
// the result. Warnings are returned even when compilation fails.
func Compile(p *Profile, opts Options) (*Validated, []string, error) {
	withDefaults := p.WithDefaults()

	warnings, err := Validate(withDefaults, opts.Validate...)
	var errs ValidationErrors
	if verrs, ok := err.(ValidationErrors); ok {
		errs = append(errs, verrs...)
	}

	code, name, resolveErrs := resolveVersions(withDefaults, opts.Versions)
	errs = append(errs, resolveErrs...)

	if len(errs) == 0 && opts.Schema != nil {
		if err := opts.Schema.Check(withDefaults); err != nil {
			if verrs, ok := err.(ValidationErrors); ok {
				errs = append(errs, verrs...)
			} else {
				return nil, warnings, err
			}
		}
	}

	if len(errs) > 0 {
		return nil, warnings, errs
	}

	return &Validated{
		profile:     withDefaults,
		versionCode: code,
		versionName: name,
	}, warnings, nil
}

func resolveVersions(p *Profile, src VersionSource) (int, string, ValidationErrors) {
	var errs ValidationErrors
	dc := p.Android.DefaultConfig

	code := dc.VersionCode.Code
	if dc.VersionCode.Ref == RefVersionCode {
		switch resolved, err := resolveCode(src); {
		case err != nil:
			errs.add(fieldVersionCode, "resolving %s: %v", RefVersionCode, err)
		default:
			if err := CheckVersionCode(resolved); err != nil {
				errs.add(fieldVersionCode, "%s resolved to an invalid value: %v", RefVersionCode, err)
			}
			code = resolved
		}
	}

	name := dc.VersionName.Name
	if dc.VersionName.Ref == RefVersionName {
		switch resolved, err := resolveName(src); {
		case err != nil:
			errs.add(fieldVersionName, "resolving %s: %v", RefVersionName, err)
		case strings.TrimSpace(resolved) == "":
			errs.add(fieldVersionName, "%s resolved to an empty value", RefVersionName)
		default:
			name = resolved
		}
	}

	return code, name, errs
}

func resolveCode(src VersionSource) (int, error) {
	if src == nil {
		return 0, fmt.Errorf("no Flutter project to read it from")
	}
	return src.VersionCode()
}

func resolveName(src VersionSource) (string, error) {
	if src == nil {
		return "", fmt.Errorf("no Flutter project to read it from")
	}
	return src.VersionName()
}
