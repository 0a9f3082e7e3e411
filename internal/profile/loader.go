package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	oerrors "github.com/safespot/droidcfg/internal/errors"
)

// Format is a profile file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatCUE  Format = "cue"
)

// DefaultFileName is the profile file looked up when no path is given.
const DefaultFileName = "droidcfg.yaml"

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("unsupported profile extension %q (supported: .yaml, .yml, .json, .toml, .cue)", filepath.Ext(path))
	}
}

// Loader reads profiles from disk.
type Loader struct {
	schema *Schema
}

// NewLoader creates a loader. The schema is required for .cue profiles.
func NewLoader(schema *Schema) *Loader {
	return &Loader{schema: schema}
}

// LoadFile reads and decodes the profile at path.
func (l *Loader) LoadFile(path string) (*Profile, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, oerrors.NewParseError(err.Error(), path, "")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, oerrors.NewNotFoundError("profile file does not exist", path,
				"Run 'droidcfg init' or 'droidcfg import' to create one")
		case errors.Is(err, fs.ErrPermission):
			return nil, oerrors.NewPermissionError("cannot read profile file", map[string]string{"Path": path}, "")
		default:
			return nil, fmt.Errorf("reading profile %s: %w", path, err)
		}
	}

	return l.Parse(data, format, path)
}

// Parse decodes profile bytes. name is used in error locations.
func (l *Loader) Parse(data []byte, format Format, name string) (*Profile, error) {
	switch format {
	case FormatYAML, FormatJSON:
		return decodeYAML(data, name)
	case FormatTOML:
		return decodeTOML(data, name)
	case FormatCUE:
		if l.schema == nil {
			return nil, fmt.Errorf("loading %s: CUE profiles need the profile schema", name)
		}
		exported, err := l.schema.Apply(data, filepath.Base(name))
		if err != nil {
			return nil, oerrors.NewParseError(err.Error(), name, "Check the profile against the #Profile schema")
		}
		return decodeYAML(exported, name)
	default:
		return nil, fmt.Errorf("unsupported profile format %q", format)
	}
}

// decodeYAML decodes YAML or JSON. Unknown keys are rejected.
func decodeYAML(data []byte, name string) (*Profile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Profile
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, oerrors.NewParseError("profile is empty", name, "")
		}
		return nil, oerrors.NewParseError(err.Error(), name, "")
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oerrors.NewParseError(err.Error(), name, "")
	}
	if err := checkAuthoredVersions(doc, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeTOML(data []byte, name string) (*Profile, error) {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var p Profile
	if err := dec.Decode(&p); err != nil {
		location := name
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) && len(strict.Errors) > 0 {
			keys := make([]string, 0, len(strict.Errors))
			for _, e := range strict.Errors {
				keys = append(keys, strings.Join(e.Key(), "."))
			}
			row, col := strict.Errors[0].Position()
			return nil, oerrors.NewParseError("unknown field(s): "+strings.Join(keys, ", "),
				fmt.Sprintf("%s:%d:%d", name, row, col), "")
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			location = fmt.Sprintf("%s:%d:%d", name, row, col)
		}
		return nil, oerrors.NewParseError(err.Error(), location, "")
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, oerrors.NewParseError(err.Error(), name, "")
	}
	if err := checkAuthoredVersions(doc, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// checkAuthoredVersions rejects versionCode and versionName keys that are
// present in the document but decode to the unset value. WithDefaults fills
// unset versions with the Flutter references, so an authored 0 or "" must
// fail here instead of being replaced.
func checkAuthoredVersions(doc map[string]any, p *Profile) error {
	android, _ := doc["android"].(map[string]any)
	dc, _ := android["defaultConfig"].(map[string]any)

	var errs ValidationErrors
	if v, ok := dc["versionCode"]; ok && v != nil && p.Android.DefaultConfig.VersionCode.IsZero() {
		errs.add(fieldVersionCode, "%v", CheckVersionCode(0))
	}
	if v, ok := dc["versionName"]; ok && v != nil && p.Android.DefaultConfig.VersionName.IsZero() {
		errs.add(fieldVersionName, "must not be empty")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Encode writes p to w in the given format.
func Encode(w io.Writer, p *Profile, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encoding TOML: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("format %s not supported for profile output", format)
	}
}

// WriteFile encodes p into path, picking the format from the extension.
func WriteFile(path string, p *Profile) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if format == FormatCUE {
		return fmt.Errorf("writing CUE profiles is not supported; use .yaml, .json or .toml")
	}

	var buf bytes.Buffer
	if err := Encode(&buf, p, format); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
