package vault

import (
	"path"
	"strings"
)

// matchGlob matches a forward-slash relative path against a glob pattern
// where "**" spans any number of path segments and the remaining segments
// follow path.Match rules. Just enough glob for inclusion/exclusion lists;
// the query-time path filter has its own, simpler semantics.
func matchGlob(pattern, p string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(p, "/"))
}

func matchSegments(pattern, segs []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			// "**" as the final segment matches everything below.
			if len(pattern) == 1 {
				return true
			}
			for skip := 0; skip <= len(segs); skip++ {
				if matchSegments(pattern[1:], segs[skip:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		ok, err := path.Match(pattern[0], segs[0])
		if err != nil || !ok {
			return false
		}
		pattern = pattern[1:]
		segs = segs[1:]
	}
	return len(segs) == 0
}

// matchAny reports whether any pattern matches p.
func matchAny(patterns []string, p string) bool {
	for _, pattern := range patterns {
		if matchGlob(pattern, p) {
			return true
		}
	}
	return false
}
