package internal

import (
	"github.com/spf13/cobra"

	"github.com/goplus/llconan/pkgs/linkage"
	"github.com/goplus/llconan/x/conan"
)

var (
	packageFolders folderFlags
	packageLink    bool
	packageLibDir  string
	packageRecurse bool
	packageFormat  string
)

var packageCmd = &cobra.Command{
	Use:   "package [recipe]",
	Short: "Run the package method of a recipe",
	Long: `Package runs "conan package" on a recipe. With --link it then prints link
directives for the libraries found in the package folder.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPackage,
}

func init() {
	packageFolders.register(packageCmd)
	flags := packageCmd.Flags()
	flags.BoolVar(&packageLink, "link", false, "Print link directives for the packaged libraries")
	flags.StringVar(&packageLibDir, "lib-dir", linkage.DefaultLibDir, "Library directory inside the package folder")
	flags.BoolVar(&packageRecurse, "recursive", false, "Scan the whole package folder")
	flags.StringVar(&packageFormat, "format", "", "Directive format: cargo or flags")
	rootCmd.AddCommand(packageCmd)
}

func runPackage(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c := newPackage(args)
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
	if packageLink {
		p.Stdout = cmd.ErrOrStderr()
	}
	if err := c.Run(ctx, p); err != nil {
		return err
	}
	if !packageLink {
		return nil
	}

	root := c.PackageFolder()
	if root == "" {
		root = defaultPackageFolder
	}
	w, err := directiveWriter(cmd, packageFormat)
	if err != nil {
		return err
	}
	s := &linkage.Scanner{Root: root, LibDir: packageLibDir, Recursive: packageRecurse}
	return s.Emit(w)
}

func newPackage(args []string) *conan.Package {
	b := conan.NewPackage().
		WithBuildFolder(packageFolders.build).
		WithInstallFolder(packageFolders.install).
		WithPackageFolder(packageFolders.pkg).
		WithSourceFolder(packageFolders.source)
	if len(args) > 0 {
		b.WithRecipePath(args[0])
	}
	return b.Build()
}
