package internal

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goplus/llconan/pkgs/buildinfo"
	"github.com/goplus/llconan/x/conan"
)

var (
	emitOutputDir string
	emitFormat    string
)

var emitCmd = &cobra.Command{
	Use:   "emit [report]",
	Short: "Print link directives from an existing conanbuildinfo.json",
	Long: `Emit parses a conanbuildinfo.json and prints, for each dependency, its
library search paths, libraries, system libraries and include paths.
The report may be given as a file or a folder; it defaults to the install
folder resolved like "llconan install" does.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEmit,
}

func init() {
	flags := emitCmd.Flags()
	flags.StringVar(&emitOutputDir, "output-dir", "", "Install folder holding the report")
	flags.StringVar(&emitFormat, "format", "", "Directive format: cargo or flags")
	rootCmd.AddCommand(emitCmd)
}

func runEmit(cmd *cobra.Command, args []string) error {
	path, err := reportPath(args)
	if err != nil {
		return err
	}
	r, err := buildinfo.ParseFile(path)
	if err != nil {
		return err
	}
	w, err := directiveWriter(cmd, emitFormat)
	if err != nil {
		return err
	}
	return r.EmitLinkDirectives(w)
}

// reportPath resolves the report from the argument, or from the install
// folder precedence when no argument is given.
func reportPath(args []string) (string, error) {
	if len(args) > 0 {
		if fi, err := os.Stat(args[0]); err == nil && fi.IsDir() {
			return filepath.Join(args[0], buildinfo.FileName), nil
		}
		return args[0], nil
	}
	e, err := conanEnv()
	if err != nil {
		return "", err
	}
	return conan.NewInstall().WithOutputDir(emitOutputDir).WithEnv(e).Build().OutputFile(), nil
}
