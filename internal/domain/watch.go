package domain

import (
	"errors"
	"path/filepath"

	"github.com/gobwas/glob"
)

var (
	errDanglingEscape     = errors.New("dangling '\\'")
	errUnclosedAlternates = errors.New("unclosed alternate group; missing '}'")
	errUnopenedAlternates = errors.New("unopened alternate group; missing '{'")
	errNestedAlternates   = errors.New("nested alternate groups are not allowed")
)

// WatchMatcher tests project-relative paths against a compiled set of watch
// patterns. It is safe for concurrent use.
type WatchMatcher struct {
	patterns []string
	globs    []glob.Glob
}

// CompileWatchPatterns compiles patterns into one matcher. A single invalid
// pattern fails the whole set.
func CompileWatchPatterns(patterns []string) (*WatchMatcher, error) {
	globs := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		if err := checkGlobSyntax(pattern); err != nil {
			return nil, &PatternError{Pattern: pattern, Err: err}
		}

		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, &PatternError{Pattern: pattern, Err: err}
		}

		globs = append(globs, g)
	}

	return &WatchMatcher{
		patterns: append([]string(nil), patterns...),
		globs:    globs,
	}, nil
}

// checkGlobSyntax rejects alternation and escape forms that glob.Compile
// tolerates but a watch pattern must not contain.
func checkGlobSyntax(pattern string) error {
	var (
		escaped bool
		inClass bool
		inGroup bool
	)

	for _, r := range pattern {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case inClass:
			inClass = r != ']'
		case r == '[':
			inClass = true
		case r == '{':
			if inGroup {
				return errNestedAlternates
			}

			inGroup = true
		case r == '}':
			if !inGroup {
				return errUnopenedAlternates
			}

			inGroup = false
		}
	}

	switch {
	case escaped:
		return errDanglingEscape
	case inGroup:
		return errUnclosedAlternates
	}

	return nil
}

// Match reports whether path matches any pattern. Wildcards may cross
// directory separators, so "*.c" matches "src/main.c".
func (w *WatchMatcher) Match(path string) bool {
	path = filepath.ToSlash(path)

	for _, g := range w.globs {
		if g.Match(path) {
			return true
		}
	}

	return false
}

// Patterns returns the source patterns in declaration order.
func (w *WatchMatcher) Patterns() []string {
	return append([]string(nil), w.patterns...)
}

// Len returns the number of compiled patterns.
func (w *WatchMatcher) Len() int {
	return len(w.globs)
}
