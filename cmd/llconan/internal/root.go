package internal

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/goplus/llconan/internal/config"
	"github.com/goplus/llconan/internal/env"
	"github.com/goplus/llconan/pkgs/directive"
	"github.com/goplus/llconan/x/conan"
)

var (
	rootVerbose    bool
	rootConfigPath string
	rootEnvFiles   []string

	cfg    = config.Default()
	logger = log.Default()
)

var rootCmd = &cobra.Command{
	Use:   "llconan",
	Short: "llconan drives the Conan package manager for native builds",
	Long: `llconan renders conan install, build and package invocations, runs them,
and turns the resulting conanbuildinfo.json or package folder into linker
directives for a downstream build.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&rootConfigPath, "config", "", "Config file (default is $XDG_CONFIG_HOME/llconan/config.yaml)")
	flags.StringArrayVar(&rootEnvFiles, "env-file", nil, "Load variables from this dotenv file (default .env)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(rootConfigPath)
	if err != nil {
		return err
	}
	cfg = c

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if rootVerbose {
		level = log.DebugLevel
	}
	logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Level:  level,
		Prefix: "llconan",
	})
	log.SetDefault(logger)
	return nil
}

// conanEnv loads dotenv files and captures the conan signals.
func conanEnv() (conan.Env, error) {
	return env.Conan(rootEnvFiles...)
}

// program resolves conan and warns when its major version does not
// support the json generator.
func program(ctx context.Context, e conan.Env) (*conan.Program, error) {
	p, err := conan.FindProgram(e)
	if err != nil {
		if conan.IsNotFound(err) {
			return nil, fmt.Errorf("%w (set %s or add conan to PATH)", err, conan.EnvProgram)
		}
		return nil, err
	}
	p.Logger = logger

	major, err := p.Major(ctx)
	switch {
	case err != nil:
		logger.Debug("cannot determine conan version", "err", err)
	case major >= 2:
		logger.Warn("conan 2 does not provide the json generator; install may fail", "major", major)
	}
	return p, nil
}

// stringFlag returns the flag value if it was set on the command line,
// otherwise fallback.
func stringFlag(cmd *cobra.Command, name, value, fallback string) string {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}

// directiveWriter returns a Writer on the command output using the
// --format flag or the configured format.
func directiveWriter(cmd *cobra.Command, format string) (*directive.Writer, error) {
	f, err := directive.ParseFormat(stringFlag(cmd, "format", format, cfg.Format))
	if err != nil {
		return nil, err
	}
	return directive.NewWriter(cmd.OutOrStdout(), f), nil
}
