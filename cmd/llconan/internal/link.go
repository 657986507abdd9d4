package internal

import (
	"github.com/spf13/cobra"

	"github.com/goplus/llconan/pkgs/linkage"
)

const defaultPackageFolder = "package"

var (
	linkLibDir  string
	linkRecurse bool
	linkFormat  string
)

var linkCmd = &cobra.Command{
	Use:   "link [package-folder]",
	Short: "Print link directives for the libraries in a package folder",
	Long: `Link scans <package-folder>/<lib-dir> for .a, .lib, .so, .dylib and .dll
files and prints one link-lib and one link-search directive for each.
With --recursive the whole package folder is scanned.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLink,
}

func init() {
	flags := linkCmd.Flags()
	flags.StringVar(&linkLibDir, "lib-dir", linkage.DefaultLibDir, "Library directory inside the package folder")
	flags.BoolVar(&linkRecurse, "recursive", false, "Scan the whole package folder")
	flags.StringVar(&linkFormat, "format", "", "Directive format: cargo or flags")
	rootCmd.AddCommand(linkCmd)
}

func runLink(cmd *cobra.Command, args []string) error {
	root := defaultPackageFolder
	if len(args) > 0 {
		root = args[0]
	}
	w, err := directiveWriter(cmd, linkFormat)
	if err != nil {
		return err
	}
	s := &linkage.Scanner{Root: root, LibDir: linkLibDir, Recursive: linkRecurse}
	logger.Debug("scanning libraries", "dir", s.Dir())
	return s.Emit(w)
}
