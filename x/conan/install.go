// Package conan renders conan install, build and package invocations and
// runs them against a resolved conan executable.
package conan

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/goplus/llconan/pkgs/buildinfo"
)

// Install is an immutable "conan install" invocation. Create one with
// NewInstall.
type Install struct {
	hostProfile  string
	buildProfile string
	remote       string
	settings     buildinfo.Settings
	options      []string
	policy       BuildPolicy
	recipePath   string
	outputDir    string
	update       bool
	env          Env
}

// InstallBuilder accumulates Install configuration.
type InstallBuilder struct {
	c Install
}

// NewInstall returns an empty InstallBuilder.
func NewInstall() *InstallBuilder {
	return &InstallBuilder{}
}

// WithProfile is an alias of WithHostProfile.
func (b *InstallBuilder) WithProfile(profile string) *InstallBuilder {
	return b.WithHostProfile(profile)
}

// WithHostProfile sets --profile:host.
func (b *InstallBuilder) WithHostProfile(profile string) *InstallBuilder {
	b.c.hostProfile = profile
	return b
}

// WithBuildProfile sets --profile:build.
func (b *InstallBuilder) WithBuildProfile(profile string) *InstallBuilder {
	b.c.buildProfile = profile
	return b
}

// WithRemote sets the remote to resolve packages from.
func (b *InstallBuilder) WithRemote(remote string) *InstallBuilder {
	b.c.remote = remote
	return b
}

// WithSettings sets the -s settings.
func (b *InstallBuilder) WithSettings(s buildinfo.Settings) *InstallBuilder {
	b.c.settings = s
	return b
}

// WithOptions appends -o options, keeping their order.
func (b *InstallBuilder) WithOptions(opts ...string) *InstallBuilder {
	b.c.options = append(b.c.options, opts...)
	return b
}

// WithBuildPolicy sets the -b policy.
func (b *InstallBuilder) WithBuildPolicy(p BuildPolicy) *InstallBuilder {
	b.c.policy = p
	return b
}

// WithRecipePath sets the trailing recipe path.
func (b *InstallBuilder) WithRecipePath(path string) *InstallBuilder {
	b.c.recipePath = path
	return b
}

// WithOutputDir sets the install folder.
func (b *InstallBuilder) WithOutputDir(dir string) *InstallBuilder {
	b.c.outputDir = dir
	return b
}

// WithUpdateCheck adds -u.
func (b *InstallBuilder) WithUpdateCheck() *InstallBuilder {
	b.c.update = true
	return b
}

// WithEnv sets the external signals used for output directory and build
// type resolution.
func (b *InstallBuilder) WithEnv(env Env) *InstallBuilder {
	b.c.env = env
	return b
}

// Build finalizes the configuration. The builder may be reused.
func (b *InstallBuilder) Build() *Install {
	c := b.c
	c.options = slices.Clone(b.c.options)
	return &c
}

// OutputDir returns the install folder: the explicit value, else
// Env.OutDir, else Env.WorkDir.
func (c *Install) OutputDir() string {
	switch {
	case c.outputDir != "":
		return c.outputDir
	case c.env.OutDir != "":
		return c.env.OutDir
	}
	return c.env.WorkDir
}

// OutputFile returns the path of the build info report.
func (c *Install) OutputFile() string {
	return filepath.Join(c.OutputDir(), buildinfo.FileName)
}

// Args renders the invocation arguments.
func (c *Install) Args() ([]string, error) {
	outDir := c.OutputDir()
	for _, p := range []string{c.hostProfile, c.buildProfile, c.recipePath, outDir} {
		if err := checkPath("install", p); err != nil {
			return nil, err
		}
	}

	args := []string{"install", "-g", "json"}
	if c.hostProfile != "" {
		args = append(args, "--profile:host", c.hostProfile)
	}
	if c.buildProfile != "" {
		args = append(args, "--profile:build", c.buildProfile)
	}
	if c.remote != "" {
		args = append(args, "-r", c.remote)
	}
	if c.update {
		args = append(args, "-u")
	}
	args = append(args, c.policy.Args()...)
	for _, opt := range c.options {
		args = append(args, "-o", opt)
	}
	if outDir != "" && !samePath(outDir, c.env.WorkDir) {
		args = append(args, "-if", outDir)
	}

	settings := c.settings
	if settings.BuildMode == "" {
		settings.BuildMode = c.env.BuildMode
	}
	args = append(args, settings.Args()...)

	if c.recipePath != "" {
		args = append(args, c.recipePath)
	}
	return args, nil
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return a == b
	}
	return filepath.Clean(a) == filepath.Clean(b)
}

// Run invokes conan install and parses the report it writes. A nil p
// resolves the program from the configured Env.
func (c *Install) Run(ctx context.Context, p *Program) (*buildinfo.Report, error) {
	args, err := c.Args()
	if err != nil {
		return nil, err
	}
	p, err = resolve(p, c.env)
	if err != nil {
		return nil, err
	}
	if err := p.Exec(ctx, args...); err != nil {
		return nil, err
	}
	file := c.OutputFile()
	r, err := buildinfo.ParseFile(file)
	if err != nil {
		return nil, &Error{Op: "install", Path: file, Err: err}
	}
	return r, nil
}

// Generate is like Run but reports any failure as a nil report. The
// failure is logged.
func (c *Install) Generate(ctx context.Context, p *Program) *buildinfo.Report {
	r, err := c.Run(ctx, p)
	if err != nil {
		p.logger().Warn("conan install failed", "err", err)
		return nil
	}
	return r
}

// GenerateIfAbsent returns the existing report in the output directory if
// it parses, and otherwise behaves like Generate.
func (c *Install) GenerateIfAbsent(ctx context.Context, p *Program) *buildinfo.Report {
	file := c.OutputFile()
	r, err := buildinfo.ParseFile(file)
	if err == nil {
		return r
	}
	p.logger().Debug("no usable build info, running install", "file", file, "err", err)
	return c.Generate(ctx, p)
}
