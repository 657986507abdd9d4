package conan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/semver"
)

var (
	versionRE = regexp.MustCompile(`version (\d+)\.(\d+)\.(\d+)$`)
	remoteRE  = regexp.MustCompile(`^(\S+):\s+(\S+://\S+)(?:\s+(.*))?$`)
)

// Program is a resolved conan executable.
type Program struct {
	// Path is the executable path.
	Path string
	// Dir is the working directory of spawned processes; empty means the
	// current directory.
	Dir string
	// Stdout and Stderr receive the output of Exec. Nil means os.Stdout and
	// os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	// Logger receives debug and warning messages. Nil means log.Default().
	Logger *log.Logger
}

// FindProgram resolves conan from env.Program, falling back to a PATH lookup.
func FindProgram(env Env) (*Program, error) {
	if env.Program != "" {
		return &Program{Path: env.Program}, nil
	}
	path, err := exec.LookPath("conan")
	if err != nil {
		return nil, &Error{Op: "lookup", Err: fmt.Errorf("%w: %w", ErrProgramNotFound, err)}
	}
	return &Program{Path: path}, nil
}

func (p *Program) logger() *log.Logger {
	if p != nil && p.Logger != nil {
		return p.Logger
	}
	return log.Default()
}

func (p *Program) command(ctx context.Context, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, p.Path, args...)
	if p.Dir != "" {
		cmd.Dir = p.Dir
	}
	p.logger().Debug("exec", "program", p.Path, "args", args)
	return cmd
}

// Exec runs conan with args, passing its output through.
func (p *Program) Exec(ctx context.Context, args ...string) error {
	cmd := p.command(ctx, args)
	cmd.Stdout = p.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = p.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return &Error{Op: opName(args), Err: fmt.Errorf("%w: %w", ErrProcessFailed, err)}
	}
	return nil
}

// Output runs conan with args and returns its standard output. On failure
// the captured standard error becomes part of the error.
func (p *Program) Output(ctx context.Context, args ...string) (string, error) {
	cmd := p.command(ctx, args)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", &Error{Op: opName(args), Err: fmt.Errorf("%w: %w", ErrProcessFailed, err)}
	}
	return stdout.String(), nil
}

func opName(args []string) string {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "exec"
	}
	return args[0]
}

// Version returns the conan version as "X.Y.Z".
func (p *Program) Version(ctx context.Context) (string, error) {
	// $ conan --version
	// Conan version 1.14.3
	out, err := p.Output(ctx, "--version")
	if err != nil {
		return "", err
	}
	m := versionRE.FindStringSubmatch(strings.TrimSpace(out))
	if m == nil {
		return "", &Error{Op: "version", Err: fmt.Errorf("unrecognized version output %q", strings.TrimSpace(out))}
	}
	return m[1] + "." + m[2] + "." + m[3], nil
}

// Major returns the major conan version.
func (p *Program) Major(ctx context.Context) (int, error) {
	v, err := p.Version(ctx)
	if err != nil {
		return 0, err
	}
	sv := "v" + v
	if !semver.IsValid(sv) {
		return 0, &Error{Op: "version", Err: fmt.Errorf("invalid version %q", v)}
	}
	return strconv.Atoi(strings.TrimPrefix(semver.Major(sv), "v"))
}

// Remote is a configured conan remote.
type Remote struct {
	Name string
	URL  string
}

func (r Remote) String() string {
	return r.Name + ": " + r.URL
}

// Remotes lists the configured remotes. Lines that do not look like a
// remote entry are ignored.
func (p *Program) Remotes(ctx context.Context) ([]Remote, error) {
	// $ conan remote list
	// conan-center: https://conan.bintray.com [Verify SSL: True]
	out, err := p.Output(ctx, "remote", "list")
	if err != nil {
		return nil, err
	}
	var remotes []Remote
	for _, line := range strings.Split(out, "\n") {
		m := remoteRE.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		remotes = append(remotes, Remote{Name: m[1], URL: m[2]})
	}
	return remotes, nil
}

// Profiles lists the profile names known to conan.
func (p *Program) Profiles(ctx context.Context) ([]string, error) {
	out, err := p.Output(ctx, "profile", "list")
	if err != nil {
		return nil, err
	}
	var profiles []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		// conan 2 prints a "Profiles found in the cache:" header
		if line == "" || strings.HasSuffix(line, ":") {
			continue
		}
		profiles = append(profiles, line)
	}
	return profiles, nil
}

// resolve returns p, or the program found from env when p is nil.
func resolve(p *Program, env Env) (*Program, error) {
	if p != nil {
		return p, nil
	}
	return FindProgram(env)
}

// IsNotFound reports whether err means conan could not be located.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProgramNotFound)
}
