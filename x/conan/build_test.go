package conan

import (
	"errors"
	"slices"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name string
		cmd  *Build
		want []string
	}{
		{
			name: "default",
			cmd:  NewBuild().Build(),
			want: []string{"build", "."},
		},
		{
			name: "custom",
			cmd: NewBuild().
				WithRecipePath("./recipe").
				WithBuildFolder("./build").
				WithInstallFolder("./install").
				WithPackageFolder("./package").
				WithSourceFolder("./source").
				WithConfigureStep(true).
				WithBuildStep(true).
				WithInstallStep(true).
				Build(),
			want: []string{
				"build", "./recipe",
				"--build-folder", "./build",
				"--install-folder", "./install",
				"--package-folder", "./package",
				"--source-folder", "./source",
				"--configure", "--build", "--install",
			},
		},
		{
			name: "build step only",
			cmd:  NewBuild().WithSourceFolder("src").WithBuildStep(true).Build(),
			want: []string{"build", ".", "--source-folder", "src", "--build"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cmd.Args()
			if err != nil {
				t.Fatalf("Args: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Args() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPackageArgs(t *testing.T) {
	got, err := NewPackage().Build().Args()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"package", "."}; !slices.Equal(got, want) {
		t.Errorf("default Args() = %q, want %q", got, want)
	}

	cmd := NewPackage().
		WithRecipePath("path/to/recipe").
		WithBuildFolder("path/to/build").
		WithInstallFolder("path/to/install").
		WithPackageFolder("path/to/package").
		WithSourceFolder("path/to/source").
		Build()
	got, err = cmd.Args()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"package", "path/to/recipe",
		"--build-folder", "path/to/build",
		"--install-folder", "path/to/install",
		"--package-folder", "path/to/package",
		"--source-folder", "path/to/source",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Args() = %q, want %q", got, want)
	}
	if cmd.PackageFolder() != "path/to/package" {
		t.Errorf("PackageFolder() = %q", cmd.PackageFolder())
	}
}

func TestMissingRecipe(t *testing.T) {
	if _, err := NewBuild().WithRecipePath("").Build().Args(); !errors.Is(err, ErrMissingRequiredPath) {
		t.Errorf("build Args() error = %v, want ErrMissingRequiredPath", err)
	}
	if _, err := NewPackage().WithRecipePath("").Build().Args(); !errors.Is(err, ErrMissingRequiredPath) {
		t.Errorf("package Args() error = %v, want ErrMissingRequiredPath", err)
	}
}

func TestFolderInvalidPath(t *testing.T) {
	_, err := NewBuild().WithBuildFolder("b\xff").Build().Args()
	if !errors.Is(err, ErrInvalidPathEncoding) {
		t.Errorf("build Args() error = %v, want ErrInvalidPathEncoding", err)
	}
	_, err = NewPackage().WithSourceFolder("s\x00").Build().Args()
	if !errors.Is(err, ErrInvalidPathEncoding) {
		t.Errorf("package Args() error = %v, want ErrInvalidPathEncoding", err)
	}
}
