package profile

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"sigs.k8s.io/yaml"
)

// DiffOptions configures Diff.
type DiffOptions struct {
	// UseColor enables colorized diff output.
	UseColor bool

	// FromName and ToName label the two sides in the report.
	FromName string
	ToName   string
}

// Diff compares two profiles and returns a human-readable report.
// It returns "" when the profiles are equal.
func Diff(from, to *Profile, opts DiffOptions) (string, error) {
	fromYAML, err := yaml.Marshal(from)
	if err != nil {
		return "", fmt.Errorf("serializing %s: %w", nameOr(opts.FromName, "from"), err)
	}

	toYAML, err := yaml.Marshal(to)
	if err != nil {
		return "", fmt.Errorf("serializing %s: %w", nameOr(opts.ToName, "to"), err)
	}

	return diffYAML(fromYAML, toYAML, opts)
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

// diffYAML computes a YAML-aware diff using dyff.
func diffYAML(from, to []byte, opts DiffOptions) (string, error) {
	fromInput, err := parseYAMLInput(nameOr(opts.FromName, "from"), from)
	if err != nil {
		return "", fmt.Errorf("parsing from YAML: %w", err)
	}

	toInput, err := parseYAMLInput(nameOr(opts.ToName, "to"), to)
	if err != nil {
		return "", fmt.Errorf("parsing to YAML: %w", err)
	}

	report, err := dyff.CompareInputFiles(fromInput, toInput)
	if err != nil {
		return "", fmt.Errorf("comparing YAML: %w", err)
	}

	if len(report.Diffs) == 0 {
		return "", nil
	}

	return renderDyffReport(report, opts.UseColor)
}

// parseYAMLInput parses YAML bytes into a dyff input file.
func parseYAMLInput(name string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: name}, nil
	}

	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}

	return ytbx.InputFile{
		Location:  name,
		Documents: docs,
	}, nil
}

// renderDyffReport renders a dyff report to a string.
func renderDyffReport(report dyff.Report, useColor bool) (string, error) {
	var buf bytes.Buffer

	reportWriter := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}

	if err := reportWriter.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
