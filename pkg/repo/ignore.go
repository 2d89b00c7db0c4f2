package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFile is the per-repository ignore file, using gitignore syntax.
const IgnoreFile = ".bgitignore"

// defaultIgnores always apply, on top of whatever IgnoreFile says.
var defaultIgnores = []string{DirName, ".git"}

// IgnoreChecker determines if a repo-relative path should be ignored.
type IgnoreChecker struct {
	matcher *gitignore.GitIgnore
}

// NewIgnoreChecker compiles the default patterns plus .bgitignore from
// repoRoot when it exists.
func NewIgnoreChecker(repoRoot string) (*IgnoreChecker, error) {
	ignorePath := filepath.Join(repoRoot, IgnoreFile)
	if _, err := os.Stat(ignorePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &IgnoreChecker{matcher: gitignore.CompileIgnoreLines(defaultIgnores...)}, nil
		}
		return nil, fmt.Errorf("ignore: stat %s: %w", IgnoreFile, err)
	}
	m, err := gitignore.CompileIgnoreFileAndLines(ignorePath, defaultIgnores...)
	if err != nil {
		return nil, fmt.Errorf("ignore: parse %s: %w", IgnoreFile, err)
	}
	return &IgnoreChecker{matcher: m}, nil
}

// IsIgnored reports whether relPath (slash separated, repo-relative) is
// excluded from staging. Anything under the repository directory always is.
func (ic *IgnoreChecker) IsIgnored(relPath string) bool {
	first, _, _ := strings.Cut(relPath, "/")
	if first == DirName {
		return true
	}
	return ic.matcher.MatchesPath(relPath)
}
