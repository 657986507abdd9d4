package internal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goplus/llconan/pkgs/buildinfo"
	"github.com/goplus/llconan/x/conan"
)

var (
	installProfile      string
	installBuildProfile string
	installRemote       string
	installPolicy       string
	installOptions      []string
	installSettings     []string
	installOutputDir    string
	installUpdate       bool
	installReuse        bool
	installEmit         bool
	installFormat       string
)

var installCmd = &cobra.Command{
	Use:   "install [recipe]",
	Short: "Install dependencies and write conanbuildinfo.json",
	Long: `Install runs "conan install -g json" and parses the conanbuildinfo.json it
writes. The output folder defaults to $OUT_DIR, then the working directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstall,
}

func init() {
	registerInstallFlags(installCmd)
	rootCmd.AddCommand(installCmd)
}

func registerInstallFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&installProfile, "profile", "p", "", "Host profile")
	flags.StringVar(&installBuildProfile, "build-profile", "", "Build machine profile")
	flags.StringVarP(&installRemote, "remote", "r", "", "Remote to look packages up in")
	flags.StringVarP(&installPolicy, "build", "b", "", "Build policy: never, always, missing or outdated")
	flags.StringArrayVarP(&installOptions, "option", "o", nil, "Package option, repeatable")
	flags.StringArrayVarP(&installSettings, "setting", "s", nil, "Setting as key=value, repeatable")
	flags.StringVar(&installOutputDir, "output-dir", "", "Install folder")
	flags.BoolVarP(&installUpdate, "update", "u", false, "Check remotes for newer versions")
	flags.BoolVar(&installReuse, "reuse", false, "Use an existing conanbuildinfo.json instead of installing")
	flags.BoolVar(&installEmit, "emit", false, "Print link directives for the installed dependencies")
	flags.StringVar(&installFormat, "format", "", "Directive format: cargo or flags")
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e, err := conanEnv()
	if err != nil {
		return err
	}
	c, err := newInstall(cmd, args, e)
	if err != nil {
		return err
	}
	p, err := program(ctx, e)
	if err != nil {
		return err
	}
	if installEmit {
		// stdout carries only directives
		p.Stdout = cmd.ErrOrStderr()
	}

	var r *buildinfo.Report
	if installReuse {
		if r = c.GenerateIfAbsent(ctx, p); r == nil {
			return errors.New("conan install did not produce a usable build info report")
		}
	} else if r, err = c.Run(ctx, p); err != nil {
		return err
	}
	logger.Info("dependencies installed", "count", len(r.Dependencies()), "report", c.OutputFile())

	if !installEmit {
		return nil
	}
	w, err := directiveWriter(cmd, installFormat)
	if err != nil {
		return err
	}
	return r.EmitLinkDirectives(w)
}

// newInstall maps flags, falling back to the config file, onto an Install.
func newInstall(cmd *cobra.Command, args []string, e conan.Env) (*conan.Install, error) {
	policy, err := conan.ParseBuildPolicy(stringFlag(cmd, "build", installPolicy, cfg.BuildPolicy))
	if err != nil {
		return nil, err
	}
	settings, err := parseSettingFlags(installSettings)
	if err != nil {
		return nil, err
	}
	options := installOptions
	if !cmd.Flags().Changed("option") {
		options = cfg.Options
	}

	b := conan.NewInstall().
		WithHostProfile(stringFlag(cmd, "profile", installProfile, cfg.Profile)).
		WithBuildProfile(stringFlag(cmd, "build-profile", installBuildProfile, cfg.BuildProfile)).
		WithRemote(stringFlag(cmd, "remote", installRemote, cfg.Remote)).
		WithOptions(options...).
		WithBuildPolicy(policy).
		WithSettings(settings).
		WithOutputDir(installOutputDir).
		WithEnv(e)
	if installUpdate {
		b.WithUpdateCheck()
	}
	if len(args) > 0 {
		b.WithRecipePath(args[0])
	}
	return b.Build(), nil
}

// parseSettingFlags parses repeated key=value setting flags.
func parseSettingFlags(values []string) (buildinfo.Settings, error) {
	var s buildinfo.Settings
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return s, fmt.Errorf("invalid setting %q: want key=value", v)
		}
		if err := s.Set(key, value); err != nil {
			return s, err
		}
	}
	return s, nil
}
