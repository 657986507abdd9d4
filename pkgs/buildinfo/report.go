// Package buildinfo decodes the conanbuildinfo.json report written by the
// Conan json generator and turns it into linker directives.
package buildinfo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goplus/llconan/pkgs/directive"
)

// FileName is the name of the report inside an install folder.
const FileName = "conanbuildinfo.json"

// ErrMalformedReport is wrapped by every decode failure that is not an I/O error.
var ErrMalformedReport = errors.New("malformed conan build info")

// Report is a parsed build info report. It is immutable once parsed.
type Report struct {
	dependencies []Dependency
	settings     Settings
}

type reportJSON struct {
	Dependencies []Dependency `json:"dependencies"`
	Settings     Settings     `json:"settings"`
}

// UnmarshalJSON decodes a report; both top-level fields are required.
func (r *Report) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "report", []string{"dependencies", "settings"}); err != nil {
		return err
	}
	var v reportJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.dependencies = v.Dependencies
	r.settings = v.Settings
	return nil
}

// MarshalJSON encodes the report in the generator's layout.
func (r *Report) MarshalJSON() ([]byte, error) {
	deps := r.dependencies
	if deps == nil {
		deps = []Dependency{}
	}
	return json.Marshal(reportJSON{Dependencies: deps, Settings: r.settings})
}

// Parse decodes a report from JSON text.
func Parse(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedReport, err)
	}
	return &r, nil
}

// Decode reads and decodes a report from r.
func Decode(r io.Reader) (*Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ParseFile reads and decodes the report at path. A missing or unreadable
// file is returned as the underlying *fs.PathError.
func ParseFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Dependency returns a copy of the first dependency called name.
func (r *Report) Dependency(name string) (*Dependency, bool) {
	for i := range r.dependencies {
		if r.dependencies[i].Name == name {
			d := r.dependencies[i].clone()
			return &d, true
		}
	}
	return nil, false
}

// Dependencies returns copies of the dependencies in report order.
func (r *Report) Dependencies() []Dependency {
	if r.dependencies == nil {
		return nil
	}
	deps := make([]Dependency, len(r.dependencies))
	for i := range r.dependencies {
		deps[i] = r.dependencies[i].clone()
	}
	return deps
}

// Settings returns the settings the report was produced with.
func (r *Report) Settings() Settings {
	return r.settings
}

// EmitLinkDirectives writes, for every dependency in order, its library
// search paths, libraries, system libraries and include paths.
func (r *Report) EmitLinkDirectives(w *directive.Writer) error {
	for _, dep := range r.dependencies {
		for _, p := range dep.LibPaths {
			if err := w.LinkSearch(p); err != nil {
				return err
			}
		}
		for _, lib := range dep.Libs {
			if err := w.LinkLib(lib, directive.KindDefault); err != nil {
				return err
			}
		}
		for _, lib := range dep.SystemLibs {
			if err := w.LinkLib(lib, directive.KindDefault); err != nil {
				return err
			}
		}
		for _, p := range dep.IncludePaths {
			if err := w.Include(p); err != nil {
				return err
			}
		}
		if err := w.RerunIfEnvChanged("CONAN"); err != nil {
			return err
		}
	}
	return nil
}
