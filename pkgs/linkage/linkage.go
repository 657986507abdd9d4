// Package linkage scans an installed package tree for library artifacts and
// emits the directives needed to link against them.
package linkage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/goplus/llconan/pkgs/directive"
)

// DefaultLibDir is the library directory scanned in flat mode when
// Scanner.LibDir is empty.
const DefaultLibDir = "lib"

// ErrInvalidFileName is returned when a library file name is not valid UTF-8.
var ErrInvalidFileName = errors.New("library file name is not valid UTF-8")

var kinds = map[string]directive.Kind{
	".a":     directive.KindStatic,
	".lib":   directive.KindStatic,
	".so":    directive.KindDynamic,
	".dylib": directive.KindDynamic,
	".dll":   directive.KindDynamic,
}

// Library is a library artifact found on disk.
type Library struct {
	Name string // without "lib" prefix and extension
	Kind directive.Kind
	Path string
}

// Dir returns the directory holding the library.
func (l Library) Dir() string {
	return filepath.Dir(l.Path)
}

// Scanner finds library artifacts under a package folder.
type Scanner struct {
	// Root is the package folder.
	Root string
	// LibDir is the directory, relative to Root, scanned in flat mode.
	LibDir string
	// Recursive walks all of Root instead of only Root/LibDir.
	Recursive bool
}

// Dir returns the directory the scanner starts from.
func (s *Scanner) Dir() string {
	if s.Recursive {
		return s.Root
	}
	lib := s.LibDir
	if lib == "" {
		lib = DefaultLibDir
	}
	return filepath.Join(s.Root, lib)
}

// Scan returns the recognized libraries in lexical path order.
func (s *Scanner) Scan() ([]Library, error) {
	if s.Recursive {
		return s.walk()
	}
	dir := s.Dir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan libraries: %w", err)
	}
	var libs []Library
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		lib, ok, err := classify(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if ok {
			libs = append(libs, lib)
		}
	}
	return libs, nil
}

func (s *Scanner) walk() ([]Library, error) {
	var libs []Library
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		lib, ok, err := classify(path)
		if err != nil {
			return err
		}
		if ok {
			libs = append(libs, lib)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan libraries: %w", err)
	}
	return libs, nil
}

// Emit writes one link-lib and one link-search directive per library.
func (s *Scanner) Emit(w *directive.Writer) error {
	libs, err := s.Scan()
	if err != nil {
		return err
	}
	for _, lib := range libs {
		if err := w.LinkLib(lib.Name, lib.Kind); err != nil {
			return err
		}
		if err := w.LinkSearch(lib.Dir()); err != nil {
			return err
		}
	}
	return nil
}

// classify reports whether path names a library and how to link it.
func classify(path string) (Library, bool, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	kind, ok := kinds[ext]
	if !ok {
		return Library{}, false, nil
	}
	if !utf8.ValidString(base) {
		return Library{}, false, fmt.Errorf("%q: %w", path, ErrInvalidFileName)
	}
	name := strings.TrimPrefix(strings.TrimSuffix(base, ext), "lib")
	if name == "" {
		return Library{}, false, nil
	}
	return Library{Name: name, Kind: kind, Path: path}, true, nil
}
