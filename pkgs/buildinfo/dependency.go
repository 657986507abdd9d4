package buildinfo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Dependency is one resolved package entry of a Conan build info report.
type Dependency struct {
	Name            string   `json:"name"`
	Version         string   `json:"version"`
	Description     string   `json:"description,omitempty"`
	RootPath        string   `json:"rootpath"`
	SysRoot         string   `json:"sysroot"`
	IncludePaths    []string `json:"include_paths"`
	LibPaths        []string `json:"lib_paths"`
	BinPaths        []string `json:"bin_paths"`
	BuildPaths      []string `json:"build_paths"`
	ResPaths        []string `json:"res_paths"`
	Libs            []string `json:"libs"`
	SystemLibs      []string `json:"system_libs,omitempty"`
	Defines         []string `json:"defines"`
	CFlags          []string `json:"cflags"`
	CXXFlags        []string `json:"cxxflags,omitempty"`
	CPPFlags        []string `json:"cppflags,omitempty"`
	SharedLinkFlags []string `json:"sharedlinkflags"`
	ExeLinkFlags    []string `json:"exelinkflags"`
}

var requiredDependencyKeys = []string{
	"name",
	"version",
	"rootpath",
	"sysroot",
	"include_paths",
	"lib_paths",
	"bin_paths",
	"build_paths",
	"res_paths",
	"libs",
	"defines",
	"cflags",
	"sharedlinkflags",
	"exelinkflags",
}

// UnmarshalJSON decodes a dependency, accepting description as null, a
// string, or an array of strings.
func (d *Dependency) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "dependency", requiredDependencyKeys); err != nil {
		return err
	}

	type plain Dependency
	aux := struct {
		*plain
		Description json.RawMessage `json:"description"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	desc, err := decodeDescription(aux.Description)
	if err != nil {
		return fmt.Errorf("dependency %q: %w", d.Name, err)
	}
	d.Description = desc
	return nil
}

// decodeDescription normalizes the description field. Older Conan
// versions write an array of lines, newer ones a single string.
func decodeDescription(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '[':
		var parts []string
		if err := json.Unmarshal(raw, &parts); err != nil {
			return "", fmt.Errorf("description: %w", err)
		}
		var buf bytes.Buffer
		for _, p := range parts {
			buf.WriteString(p)
		}
		return buf.String(), nil
	}
	return "", fmt.Errorf("description: expected null, a string, or an array of strings, got %s", raw)
}

// requireKeys reports an error if data is not a JSON object holding every
// key with a non-null value.
func requireKeys(data []byte, what string, keys []string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj == nil {
		return fmt.Errorf("%s: expected an object, got null", what)
	}
	for _, k := range keys {
		raw, ok := obj[k]
		if !ok {
			return fmt.Errorf("%s: missing field %q", what, k)
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("%s: field %q is null", what, k)
		}
	}
	return nil
}

// RootDir returns the package root directory.
func (d *Dependency) RootDir() string {
	return d.RootPath
}

// LibraryDir returns the first library path.
func (d *Dependency) LibraryDir() (string, bool) {
	return first(d.LibPaths)
}

// IncludeDir returns the first include path.
func (d *Dependency) IncludeDir() (string, bool) {
	return first(d.IncludePaths)
}

// BinaryDir returns the first binary path.
func (d *Dependency) BinaryDir() (string, bool) {
	return first(d.BinPaths)
}

func (d *Dependency) clone() Dependency {
	c := *d
	for _, s := range []*[]string{
		&c.IncludePaths, &c.LibPaths, &c.BinPaths, &c.BuildPaths, &c.ResPaths,
		&c.Libs, &c.SystemLibs, &c.Defines, &c.CFlags, &c.CXXFlags, &c.CPPFlags,
		&c.SharedLinkFlags, &c.ExeLinkFlags,
	} {
		*s = slices.Clone(*s)
	}
	return c
}

func first(s []string) (string, bool) {
	if len(s) == 0 {
		return "", false
	}
	return s[0], true
}
