package conan

import "fmt"

// BuildPolicy selects which packages conan builds from source.
type BuildPolicy int

const (
	// BuildDefault leaves the decision to conan; no -b flag is rendered.
	BuildDefault BuildPolicy = iota
	BuildNever
	// BuildAlways renders a bare -b.
	BuildAlways
	BuildMissing
	BuildOutdated
)

func (p BuildPolicy) String() string {
	switch p {
	case BuildNever:
		return "never"
	case BuildAlways:
		return "always"
	case BuildMissing:
		return "missing"
	case BuildOutdated:
		return "outdated"
	}
	return ""
}

// Args renders the policy as install arguments.
func (p BuildPolicy) Args() []string {
	switch p {
	case BuildDefault:
		return nil
	case BuildAlways:
		return []string{"-b"}
	}
	return []string{"-b", p.String()}
}

// ParseBuildPolicy converts a policy name into a BuildPolicy. The empty
// string yields BuildDefault.
func ParseBuildPolicy(s string) (BuildPolicy, error) {
	switch s {
	case "":
		return BuildDefault, nil
	case "never":
		return BuildNever, nil
	case "always":
		return BuildAlways, nil
	case "missing":
		return BuildMissing, nil
	case "outdated":
		return BuildOutdated, nil
	}
	return BuildDefault, fmt.Errorf("unknown build policy %q", s)
}
