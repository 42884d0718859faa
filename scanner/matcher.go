package scanner

import (
	"path"

	"github.com/gobwas/glob"
)

// matcher matches slash-separated relative paths against glob patterns.
type matcher struct {
	globs []glob.Glob
}

// compileMatcher compiles patterns with '/' as the separator, so "*" stays
// within one path segment and "**" crosses segments. It returns nil for an
// empty pattern list.
func compileMatcher(patterns []string) (*matcher, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	m := &matcher{globs: make([]glob.Glob, 0, len(patterns))}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// match reports whether any pattern matches rel or its base name.
func (m *matcher) match(rel string) bool {
	base := path.Base(rel)
	for _, g := range m.globs {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}
