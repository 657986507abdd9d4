package buildinfo

import (
	"fmt"
	"strings"
)

// BuildType is a Conan build_type setting value.
type BuildType int

const (
	BuildTypeNone BuildType = iota
	BuildTypeDebug
	BuildTypeRelease
	BuildTypeRelWithDebInfo
	BuildTypeMinSizeRel
)

func (b BuildType) String() string {
	switch b {
	case BuildTypeDebug:
		return "Debug"
	case BuildTypeRelease:
		return "Release"
	case BuildTypeRelWithDebInfo:
		return "RelWithDebInfo"
	case BuildTypeMinSizeRel:
		return "MinSizeRel"
	}
	return "None"
}

// DetectBuildType maps a host build mode ("debug" or "release") to a
// build_type value. Any other mode yields "".
func DetectBuildType(mode string) string {
	switch mode {
	case "debug":
		return BuildTypeDebug.String()
	case "release":
		return BuildTypeRelease.String()
	}
	return ""
}

// Settings holds the toolchain settings passed to, and reported by, Conan.
// An empty field is absent.
type Settings struct {
	Arch            string `json:"arch,omitempty"`
	ArchBuild       string `json:"arch_build,omitempty"`
	BuildType       string `json:"build_type,omitempty"`
	Compiler        string `json:"compiler,omitempty"`
	CompilerLibcxx  string `json:"compiler.libcxx,omitempty"`
	CompilerVersion string `json:"compiler.version,omitempty"`
	OS              string `json:"os,omitempty"`
	OSBuild         string `json:"os_build,omitempty"`

	// BuildMode is the host build mode used to derive BuildType when it
	// is unset. It is never serialized.
	BuildMode string `json:"-"`
}

// settingKeys lists setting names in rendering order.
var settingKeys = []string{
	"arch",
	"arch_build",
	"build_type",
	"compiler",
	"compiler.libcxx",
	"compiler.version",
	"os",
	"os_build",
}

// WithBuildType returns a copy of s with BuildType set to bt.
func (s Settings) WithBuildType(bt BuildType) Settings {
	s.BuildType = bt.String()
	return s
}

// Get returns the value of the named setting. build_type is returned as
// stored, without detection.
func (s *Settings) Get(key string) (string, error) {
	p, err := s.field(key)
	if err != nil {
		return "", err
	}
	return *p, nil
}

// Set assigns the named setting.
func (s *Settings) Set(key, value string) error {
	p, err := s.field(key)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

func (s *Settings) field(key string) (*string, error) {
	switch key {
	case "arch":
		return &s.Arch, nil
	case "arch_build":
		return &s.ArchBuild, nil
	case "build_type":
		return &s.BuildType, nil
	case "compiler":
		return &s.Compiler, nil
	case "compiler.libcxx":
		return &s.CompilerLibcxx, nil
	case "compiler.version":
		return &s.CompilerVersion, nil
	case "os":
		return &s.OS, nil
	case "os_build":
		return &s.OSBuild, nil
	}
	return nil, fmt.Errorf("unknown setting %q", key)
}

// buildType returns BuildType, falling back to the detected build mode.
func (s *Settings) buildType() string {
	if s.BuildType != "" {
		return s.BuildType
	}
	return DetectBuildType(s.BuildMode)
}

// Args renders the present settings as "-s key=value" pairs in a fixed order.
func (s *Settings) Args() []string {
	var args []string
	for _, key := range settingKeys {
		var value string
		if key == "build_type" {
			value = s.buildType()
		} else {
			value, _ = s.Get(key)
		}
		if value == "" {
			continue
		}
		args = append(args, "-s", key+"="+value)
	}
	return args
}

// ParseArgs reads "-s key=value" pairs as rendered by Args.
func ParseArgs(args []string) (Settings, error) {
	var s Settings
	if len(args)%2 != 0 {
		return s, fmt.Errorf("settings: odd number of arguments: %d", len(args))
	}
	for i := 0; i < len(args); i += 2 {
		if args[i] != "-s" {
			return s, fmt.Errorf("settings: expected -s, got %q", args[i])
		}
		key, value, ok := strings.Cut(args[i+1], "=")
		if !ok {
			return s, fmt.Errorf("settings: %q is not key=value", args[i+1])
		}
		if err := s.Set(key, value); err != nil {
			return s, err
		}
	}
	return s, nil
}
