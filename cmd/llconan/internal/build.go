package internal

import (
	"github.com/spf13/cobra"

	"github.com/goplus/llconan/x/conan"
)

// folderFlags are the folder overrides shared by build and package.
type folderFlags struct {
	build   string
	install string
	pkg     string
	source  string
}

func (f *folderFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.build, "build-folder", "", "Build folder")
	flags.StringVar(&f.install, "install-folder", "", "Folder holding conanbuildinfo files")
	flags.StringVar(&f.pkg, "package-folder", "", "Package folder")
	flags.StringVar(&f.source, "source-folder", "", "Source folder")
}

var (
	buildFolders   folderFlags
	buildConfigure bool
	buildBuild     bool
	buildInstall   bool
)

var buildCmd = &cobra.Command{
	Use:   "build [recipe]",
	Short: "Run the build method of a recipe",
	Long:  `Build runs "conan build" on a recipe, defaulting to the current directory.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildFolders.register(buildCmd)
	flags := buildCmd.Flags()
	flags.BoolVar(&buildConfigure, "configure", false, "Run the configure step")
	flags.BoolVar(&buildBuild, "build", false, "Run the build step")
	flags.BoolVar(&buildInstall, "install", false, "Run the install step")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c := newBuild(args)
	if _, err := c.Args(); err != nil {
		return err
	}
	e, err := conanEnv()
	if err != nil {
		return err
	}
	p, err := program(ctx, e)
	if err != nil {
		return err
	}
	return c.Run(ctx, p)
}

func newBuild(args []string) *conan.Build {
	b := conan.NewBuild().
		WithBuildFolder(buildFolders.build).
		WithInstallFolder(buildFolders.install).
		WithPackageFolder(buildFolders.pkg).
		WithSourceFolder(buildFolders.source).
		WithConfigureStep(buildConfigure).
		WithBuildStep(buildBuild).
		WithInstallStep(buildInstall)
	if len(args) > 0 {
		b.WithRecipePath(args[0])
	}
	return b.Build()
}
