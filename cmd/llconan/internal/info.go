package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the resolved conan program and its version",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

var remotesCmd = &cobra.Command{
	Use:   "remotes",
	Short: "List the configured conan remotes",
	Args:  cobra.NoArgs,
	RunE:  runRemotes,
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the conan profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfiles,
}

func init() {
	rootCmd.AddCommand(versionCmd, remotesCmd, profilesCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := conanEnv()
	if err != nil {
		return err
	}
	p, err := program(ctx, e)
	if err != nil {
		return err
	}
	v, err := p.Version(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", p.Path, v)
	return nil
}

func runRemotes(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := conanEnv()
	if err != nil {
		return err
	}
	p, err := program(ctx, e)
	if err != nil {
		return err
	}
	remotes, err := p.Remotes(ctx)
	if err != nil {
		return err
	}
	for _, r := range remotes {
		fmt.Fprintln(cmd.OutOrStdout(), r)
	}
	return nil
}

func runProfiles(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := conanEnv()
	if err != nil {
		return err
	}
	p, err := program(ctx, e)
	if err != nil {
		return err
	}
	profiles, err := p.Profiles(ctx)
	if err != nil {
		return err
	}
	for _, name := range profiles {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
