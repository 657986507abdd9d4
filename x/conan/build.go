package conan

import "context"

// folders are the folder overrides shared by build and package.
type folders struct {
	recipe  string
	build   string
	install string
	pkg     string
	source  string
}

func (f *folders) args(op string) ([]string, error) {
	if f.recipe == "" {
		return nil, &Error{Op: op, Err: ErrMissingRequiredPath}
	}
	for _, p := range []string{f.recipe, f.build, f.install, f.pkg, f.source} {
		if err := checkPath(op, p); err != nil {
			return nil, err
		}
	}
	args := []string{op, f.recipe}
	for _, kv := range [...]struct{ flag, value string }{
		{"--build-folder", f.build},
		{"--install-folder", f.install},
		{"--package-folder", f.pkg},
		{"--source-folder", f.source},
	} {
		if kv.value != "" {
			args = append(args, kv.flag, kv.value)
		}
	}
	return args, nil
}

// Build is an immutable "conan build" invocation.
type Build struct {
	folders
	configureStep bool
	buildStep     bool
	installStep   bool
}

// BuildBuilder accumulates Build configuration. The recipe path defaults
// to ".".
type BuildBuilder struct {
	c Build
}

// NewBuild returns a BuildBuilder with the default recipe path.
func NewBuild() *BuildBuilder {
	return &BuildBuilder{c: Build{folders: folders{recipe: "."}}}
}

func (b *BuildBuilder) WithRecipePath(path string) *BuildBuilder {
	b.c.recipe = path
	return b
}

func (b *BuildBuilder) WithBuildFolder(dir string) *BuildBuilder {
	b.c.build = dir
	return b
}

func (b *BuildBuilder) WithInstallFolder(dir string) *BuildBuilder {
	b.c.install = dir
	return b
}

func (b *BuildBuilder) WithPackageFolder(dir string) *BuildBuilder {
	b.c.pkg = dir
	return b
}

func (b *BuildBuilder) WithSourceFolder(dir string) *BuildBuilder {
	b.c.source = dir
	return b
}

// WithConfigureStep adds --configure.
func (b *BuildBuilder) WithConfigureStep(on bool) *BuildBuilder {
	b.c.configureStep = on
	return b
}

// WithBuildStep adds --build.
func (b *BuildBuilder) WithBuildStep(on bool) *BuildBuilder {
	b.c.buildStep = on
	return b
}

// WithInstallStep adds --install.
func (b *BuildBuilder) WithInstallStep(on bool) *BuildBuilder {
	b.c.installStep = on
	return b
}

// Build finalizes the configuration.
func (b *BuildBuilder) Build() *Build {
	c := b.c
	return &c
}

// Args renders the invocation arguments.
func (c *Build) Args() ([]string, error) {
	args, err := c.folders.args("build")
	if err != nil {
		return nil, err
	}
	if c.configureStep {
		args = append(args, "--configure")
	}
	if c.buildStep {
		args = append(args, "--build")
	}
	if c.installStep {
		args = append(args, "--install")
	}
	return args, nil
}

// Run invokes conan build. A nil p resolves conan from the process
// environment.
func (c *Build) Run(ctx context.Context, p *Program) error {
	args, err := c.Args()
	if err != nil {
		return err
	}
	return run(ctx, p, args)
}

// Package is an immutable "conan package" invocation.
type Package struct {
	folders
}

// PackageBuilder accumulates Package configuration. The recipe path
// defaults to ".".
type PackageBuilder struct {
	c Package
}

func NewPackage() *PackageBuilder {
	return &PackageBuilder{c: Package{folders: folders{recipe: "."}}}
}

func (b *PackageBuilder) WithRecipePath(path string) *PackageBuilder {
	b.c.recipe = path
	return b
}

func (b *PackageBuilder) WithBuildFolder(dir string) *PackageBuilder {
	b.c.build = dir
	return b
}

func (b *PackageBuilder) WithInstallFolder(dir string) *PackageBuilder {
	b.c.install = dir
	return b
}

func (b *PackageBuilder) WithPackageFolder(dir string) *PackageBuilder {
	b.c.pkg = dir
	return b
}

func (b *PackageBuilder) WithSourceFolder(dir string) *PackageBuilder {
	b.c.source = dir
	return b
}

func (b *PackageBuilder) Build() *Package {
	c := b.c
	return &c
}

// Args renders the invocation arguments.
func (c *Package) Args() ([]string, error) {
	return c.folders.args("package")
}

// PackageFolder returns the --package-folder override, if any.
func (c *Package) PackageFolder() string {
	return c.pkg
}

// Run invokes conan package. A nil p resolves conan from the process
// environment.
func (c *Package) Run(ctx context.Context, p *Program) error {
	args, err := c.Args()
	if err != nil {
		return err
	}
	return run(ctx, p, args)
}

func run(ctx context.Context, p *Program, args []string) error {
	if p == nil {
		env, err := EnvFromOS()
		if err != nil {
			return err
		}
		if p, err = FindProgram(env); err != nil {
			return err
		}
	}
	return p.Exec(ctx, args...)
}
