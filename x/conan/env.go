package conan

import "os"

// Environment variables read by EnvFromOS.
const (
	EnvProgram   = "CONAN"
	EnvOutDir    = "OUT_DIR"
	EnvBuildMode = "PROFILE"
)

// Env carries the external signals that influence command rendering and
// program resolution. Commands never read the process environment directly.
type Env struct {
	// Program overrides the conan executable path.
	Program string
	// OutDir is the fallback install output directory.
	OutDir string
	// BuildMode is the host build mode ("debug" or "release") used to derive
	// build_type when no explicit value is set.
	BuildMode string
	// WorkDir is the current working directory.
	WorkDir string
}

// EnvFromOS captures Env from the process environment.
func EnvFromOS() (Env, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Env{}, err
	}
	return Env{
		Program:   os.Getenv(EnvProgram),
		OutDir:    os.Getenv(EnvOutDir),
		BuildMode: os.Getenv(EnvBuildMode),
		WorkDir:   wd,
	}, nil
}
