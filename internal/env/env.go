package env

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/goplus/llconan/x/conan"
)

// AppName names the per-user configuration directory.
const AppName = "llconan"

// ConfigDir returns the llconan configuration directory.
func ConfigDir() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, AppName), nil
}

// LoadDotEnv loads variables from the given files, or from ".env" in the
// working directory when none are given. Variables already set in the
// process environment are kept. A missing default ".env" is not an error.
func LoadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if len(files) == 0 && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Conan loads dotenv files and captures the conan signals from the
// resulting process environment.
func Conan(files ...string) (conan.Env, error) {
	if err := LoadDotEnv(files...); err != nil {
		return conan.Env{}, err
	}
	return conan.EnvFromOS()
}
