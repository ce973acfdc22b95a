package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// document is the layout of a map file.
type document struct {
	Maps []NamedMap `yaml:"maps" validate:"dive"`
}

var validate = validator.New()

// Parse decodes the maps in one YAML document. source is recorded on each map
// and used in error messages.
func Parse(data []byte, source string) ([]NamedMap, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("validating %s: %s", source, describeValidation(err))
	}
	for i := range doc.Maps {
		doc.Maps[i].Source = source
	}
	return doc.Maps, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s is %s", strings.TrimPrefix(fe.Namespace(), "document."), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// ResolveFiles expands the glob patterns (doublestar syntax) into a sorted,
// de-duplicated file list.
func ResolveFiles(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		for _, m := range matches {
			clean := filepath.Clean(m)
			if seen[clean] {
				continue
			}
			seen[clean] = true
			files = append(files, clean)
		}
	}
	sort.Strings(files)
	return files, nil
}

// LoadFiles reads every file matched by patterns and builds a registry.
// Maps keep file order, then document order. Any structural defect in any map
// fails the whole load.
func LoadFiles(patterns []string) (*Registry, error) {
	files, err := ResolveFiles(patterns)
	if err != nil {
		return nil, err
	}

	var all []NamedMap
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading map file: %w", err)
		}
		maps, err := Parse(data, f)
		if err != nil {
			return nil, err
		}
		all = append(all, maps...)
	}

	reg, err := New(all)
	if err != nil {
		return nil, fmt.Errorf("loading maps: %w", err)
	}
	return reg, nil
}
