package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/goplus/llconan/internal/config"
	"github.com/goplus/llconan/pkgs/buildinfo"
	"github.com/goplus/llconan/x/conan"
)

func TestParseSettingFlags(t *testing.T) {
	got, err := parseSettingFlags([]string{"arch=x86_64", "build_type=Debug", "compiler.version=11"})
	if err != nil {
		t.Fatal(err)
	}
	want := buildinfo.Settings{Arch: "x86_64", BuildType: "Debug", CompilerVersion: "11"}
	if got != want {
		t.Errorf("parseSettingFlags() = %+v, want %+v", got, want)
	}

	for _, bad := range []string{"arch", "=x86", "cppstd=17"} {
		if _, err := parseSettingFlags([]string{bad}); err == nil {
			t.Errorf("parseSettingFlags(%q) = nil error", bad)
		}
	}
}

func newTestInstallCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "install"}
	registerInstallFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestNewInstallFromFlags(t *testing.T) {
	cfg = config.Default()
	cmd := newTestInstallCmd(t,
		"-p", "linux-x86_64",
		"-b", "missing",
		"-s", "build_type=Release",
		"-o", "shared=True",
		"--output-dir", "/out",
	)

	c, err := newInstall(cmd, []string{"conanfile.py"}, conan.Env{WorkDir: "/work"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Args()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"install", "-g", "json",
		"--profile:host", "linux-x86_64",
		"-b", "missing",
		"-o", "shared=True",
		"-if", "/out",
		"-s", "build_type=Release",
		"conanfile.py",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Args() = %q, want %q", got, want)
	}
}

func TestNewInstallFromConfig(t *testing.T) {
	cfg = &config.Config{
		Profile:     "windows-x86_64",
		Remote:      "conan-center",
		BuildPolicy: "always",
		Options:     []string{"fPIC=True"},
	}
	t.Cleanup(func() { cfg = config.Default() })

	cmd := newTestInstallCmd(t, "-r", "local")
	c, err := newInstall(cmd, nil, conan.Env{})
	if err != nil {
		t.Fatal(err)
	}
	got, _ := c.Args()
	want := []string{"install", "-g", "json", "--profile:host", "windows-x86_64", "-r", "local", "-b", "-o", "fPIC=True"}
	if !slices.Equal(got, want) {
		t.Errorf("Args() = %q, want %q", got, want)
	}
}

func TestNewInstallBadPolicy(t *testing.T) {
	cfg = config.Default()
	cmd := newTestInstallCmd(t, "-b", "sometimes")
	if _, err := newInstall(cmd, nil, conan.Env{}); err == nil {
		t.Error("newInstall() = nil error for unknown policy")
	}
}

func TestNewBuildAndPackage(t *testing.T) {
	buildFolders = folderFlags{build: "out"}
	buildConfigure, buildBuild, buildInstall = true, false, true
	packageFolders = folderFlags{pkg: "pkg"}
	t.Cleanup(func() {
		buildFolders, packageFolders = folderFlags{}, folderFlags{}
		buildConfigure, buildBuild, buildInstall = false, false, false
	})

	got, err := newBuild(nil).Args()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"build", ".", "--build-folder", "out", "--configure", "--install"}; !slices.Equal(got, want) {
		t.Errorf("build Args() = %q, want %q", got, want)
	}

	got, err = newPackage([]string{"recipe"}).Args()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"package", "recipe", "--package-folder", "pkg"}; !slices.Equal(got, want) {
		t.Errorf("package Args() = %q, want %q", got, want)
	}
}

// execute runs the root command with a private config file and returns
// its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "config.yaml")))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		rootConfigPath = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

const zlibReport = `{
  "dependencies": [{
    "name": "zlib", "version": "1.2.11", "rootpath": "/pkg/zlib", "sysroot": "",
    "include_paths": ["/pkg/zlib/include"], "lib_paths": ["/pkg/zlib/lib"],
    "bin_paths": [], "build_paths": [], "res_paths": [], "libs": ["z"],
    "defines": [], "cflags": [], "sharedlinkflags": [], "exelinkflags": []
  }],
  "settings": {}
}`

// fakeConan installs a conan script through $CONAN that prints progress on
// stdout and copies zlibReport into the -if folder it is given.
func fakeConan(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake conan needs a POSIX shell")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "report.json")
	if err := os.WriteFile(src, []byte(zlibReport), 0o644); err != nil {
		t.Fatal(err)
	}
	script := `#!/bin/sh
if [ "$1" = "--version" ]; then echo "Conan version 1.59.0"; exit 0; fi
echo "Installing package: zlib/1.2.11"
while [ $# -gt 0 ]; do
  if [ "$1" = "-if" ]; then shift; cp '` + src + `' "$1/` + buildinfo.FileName + `"; fi
  shift
done
`
	path := filepath.Join(dir, "conan")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv(conan.EnvProgram, path)
	t.Setenv(conan.EnvOutDir, "")
	t.Setenv(conan.EnvBuildMode, "")
}

func TestInstallEmitKeepsStdoutClean(t *testing.T) {
	fakeConan(t)
	t.Cleanup(func() {
		installEmit, installFormat, installOutputDir = false, "", ""
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"install", "--emit", "--format", "flags",
		"--output-dir", t.TempDir(), "--config", filepath.Join(t.TempDir(), "config.yaml")})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		rootConfigPath = ""
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("install: %v", err)
	}

	if want := "-L/pkg/zlib/lib\n-lz\n-I/pkg/zlib/include\n"; out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
	if !strings.Contains(errOut.String(), "Installing package: zlib/1.2.11") {
		t.Errorf("conan output not on stderr:\n%s", errOut.String())
	}
}

func TestPackageLinkKeepsStdoutClean(t *testing.T) {
	fakeConan(t)
	t.Cleanup(func() {
		packageLink, packageFormat, packageFolders = false, "", folderFlags{}
	})

	pkg := t.TempDir()
	libDir := filepath.Join(pkg, "lib")
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(libDir, "libz.a"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "package", ".", "--link", "--format", "flags", "--package-folder", pkg)
	if err != nil {
		t.Fatalf("package: %v", err)
	}
	if want := "-lz\n-L" + libDir + "\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestEmitCommand(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, buildinfo.FileName), []byte(zlibReport), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "emit", dir)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	want := "cargo:rustc-link-search=native=/pkg/zlib/lib\n" +
		"cargo:rustc-link-lib=z\n" +
		"cargo:include=/pkg/zlib/include\n" +
		"cargo:rerun-if-env-changed=CONAN\n"
	if out != want {
		t.Errorf("emit output:\n%s\nwant:\n%s", out, want)
	}
}

func TestEmitCommandMissingReport(t *testing.T) {
	if _, err := execute(t, "emit", filepath.Join(t.TempDir(), buildinfo.FileName)); err == nil {
		t.Error("emit with a missing report succeeded")
	}
}

func TestLinkCommand(t *testing.T) {
	root := t.TempDir()
	libDir := filepath.Join(root, "lib")
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"libssl.a", "README"} {
		if err := os.WriteFile(filepath.Join(libDir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := execute(t, "link", root, "--format", "flags")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if want := "-lssl\n-L" + libDir + "\n"; out != want {
		t.Errorf("link output = %q, want %q", out, want)
	}
}

func TestConfigInitShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llconan", "config.yaml")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		rootConfigPath = ""
	})

	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	if err := rootCmd.Execute(); err == nil {
		t.Error("second config init without --force succeeded")
	}

	out.Reset()
	rootCmd.SetArgs([]string{"config", "show", "--config", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"build_policy: missing", "format: cargo", "log_level: info"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("config show output missing %q:\n%s", want, out.String())
		}
	}
}
