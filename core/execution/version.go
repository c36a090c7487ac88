package execution

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseVersion parses "major.minor.patch[.build][-prerelease]". Missing minor,
// patch and build parts are zero.
func ParseVersion(s string) (Version, error) {
	var v Version
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if s == "" {
		return v, fmt.Errorf("invalid version: empty")
	}
	s, v.PreRelease, _ = strings.Cut(s, "-")

	parts := strings.Split(s, ".")
	if len(parts) > 4 {
		return Version{}, fmt.Errorf("invalid version %q: too many parts", s)
	}
	dst := []*int{&v.Major, &v.Minor, &v.Patch, &v.Build}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q: part %d is not a number", s, i+1)
		}
		*dst[i] = n
	}
	return v, nil
}

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Build != 0 {
		s += "." + strconv.Itoa(v.Build)
	}
	if v.PreRelease != "" {
		s += "-" + v.PreRelease
	}
	return s
}
