package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)

	def := Default()
	assert.Empty(t, cfg.Options)
	cfg.Options, def.Options = nil, nil
	assert.Equal(t, def, cfg)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	want := &Config{
		Profile:      "linux-x86_64",
		BuildProfile: "default",
		Remote:       "conan-center",
		BuildPolicy:  "outdated",
		Options:      []string{"shared=True", "fPIC=True"},
		Format:       "flags",
		LogLevel:     "debug",
	}
	require.NoError(t, Save(want, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("profile: windows-x86_64\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "windows-x86_64", cfg.Profile)
	assert.Equal(t, "missing", cfg.BuildPolicy)
	assert.Equal(t, "cargo", cfg.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("remote: local\n"), 0o644))
	t.Setenv("LLCONAN_REMOTE", "conan-center")
	t.Setenv("LLCONAN_BUILD_POLICY", "never")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "conan-center", cfg.Remote)
	assert.Equal(t, "never", cfg.BuildPolicy)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"yaml", "profile: [unterminated\n"},
		{"build policy", "build_policy: sometimes\n"},
		{"format", "format: xml\n"},
		{"log level", "log_level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
