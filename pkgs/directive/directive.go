// Package directive writes linker directives, one per line, for a build
// orchestrator that scans the output stream.
package directive

import (
	"fmt"
	"io"
	"os"
)

// Kind is the link kind of a library.
type Kind int

const (
	// KindDefault lets the linker pick.
	KindDefault Kind = iota
	// KindStatic links a static archive.
	KindStatic
	// KindDynamic links a shared object or dynamic library.
	KindDynamic
)

// String returns the kind as it appears in cargo directives.
func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindDynamic:
		return "dylib"
	}
	return ""
}

// Format selects the line syntax.
type Format string

const (
	// FormatCargo renders cargo build-script directives
	// (cargo:rustc-link-search=native=..., cargo:rustc-link-lib=..., cargo:include=...).
	FormatCargo Format = "cargo"
	// FormatFlags renders plain compiler/linker flags (-L, -l, -I).
	FormatFlags Format = "flags"
)

// ParseFormat converts a format name into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCargo, FormatFlags:
		return f, nil
	case "":
		return FormatCargo, nil
	}
	return "", fmt.Errorf("unknown directive format %q", s)
}

// Writer emits directives to an underlying writer.
type Writer struct {
	w      io.Writer
	format Format
}

// NewWriter returns a Writer that writes lines in format f to w.
func NewWriter(w io.Writer, f Format) *Writer {
	if f == "" {
		f = FormatCargo
	}
	return &Writer{w: w, format: f}
}

// Stdout returns a cargo-format Writer on os.Stdout.
func Stdout() *Writer {
	return NewWriter(os.Stdout, FormatCargo)
}

// Format returns the line format of d.
func (d *Writer) Format() Format {
	return d.format
}

// LinkSearch advertises a native library search path.
func (d *Writer) LinkSearch(path string) error {
	if d.format == FormatFlags {
		return d.line("-L" + path)
	}
	return d.line("cargo:rustc-link-search=native=" + path)
}

// LinkLib requests that name be linked with the given kind.
func (d *Writer) LinkLib(name string, kind Kind) error {
	if d.format == FormatFlags {
		return d.line("-l" + name)
	}
	if k := kind.String(); k != "" {
		return d.line("cargo:rustc-link-lib=" + k + "=" + name)
	}
	return d.line("cargo:rustc-link-lib=" + name)
}

// Include advertises a header search path.
func (d *Writer) Include(path string) error {
	if d.format == FormatFlags {
		return d.line("-I" + path)
	}
	return d.line("cargo:include=" + path)
}

// RerunIfEnvChanged asks the orchestrator to rerun when the variable changes.
// It is a no-op for FormatFlags.
func (d *Writer) RerunIfEnvChanged(name string) error {
	if d.format == FormatFlags {
		return nil
	}
	return d.line("cargo:rerun-if-env-changed=" + name)
}

func (d *Writer) line(s string) error {
	_, err := io.WriteString(d.w, s+"\n")
	return err
}
