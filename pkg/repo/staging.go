package repo

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// indexPath returns the filesystem path to the staging index file.
func (r *Repo) indexPath() string {
	return filepath.Join(r.BgitDir, "index")
}

// StagedPaths returns the staged repo-relative paths in staging order.
// A path staged more than once is reported once, at its first position.
func (r *Repo) StagedPaths() ([]string, error) {
	data, err := os.ReadFile(r.indexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read staging: %w", err)
	}

	var paths []string
	seen := make(map[string]bool)
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		p := strings.TrimSuffix(sc.Text(), "\r")
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read staging: %w", err)
	}
	return paths, nil
}

// Stage appends the given paths to the staging index. Each path is checked
// on its own: paths that do not exist, are not regular files, escape the
// repository or are ignored are rejected with a *PathError and the rest are
// still staged. The returned slice holds the repo-relative form of every
// accepted path; the error joins the per-path failures. Paths already staged
// are accepted without being appended again.
func (r *Repo) Stage(paths []string) ([]string, error) {
	existing, err := r.StagedPaths()
	if err != nil {
		return nil, fmt.Errorf("stage: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p] = true
	}

	ignore, err := NewIgnoreChecker(r.RootDir)
	if err != nil {
		return nil, fmt.Errorf("stage: %w", err)
	}

	var (
		accepted []string
		failures []error
		buf      bytes.Buffer
	)
	for _, p := range paths {
		rel, err := r.checkStageable(p, ignore)
		if err != nil {
			r.logger.Warn("path not staged", "path", p, "err", err)
			failures = append(failures, &PathError{Path: p, Err: err})
			continue
		}
		accepted = append(accepted, rel)
		if seen[rel] {
			continue
		}
		seen[rel] = true
		buf.WriteString(rel)
		buf.WriteByte('\n')
	}

	if buf.Len() > 0 {
		if err := r.appendIndex(buf.Bytes()); err != nil {
			return nil, fmt.Errorf("stage: %w", err)
		}
		r.logger.Debug("staged paths", "count", len(accepted))
	}
	return accepted, errors.Join(failures...)
}

func (r *Repo) appendIndex(data []byte) error {
	f, err := os.OpenFile(r.indexPath(), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("append index: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync index: %w", err)
	}
	return f.Close()
}

// checkStageable resolves p against the repository and verifies it names a
// regular file that may be staged.
func (r *Repo) checkStageable(p string, ignore *IgnoreChecker) (string, error) {
	rel, err := r.repoRelPath(p)
	if err != nil {
		return "", err
	}
	if ignore.IsIgnored(rel) {
		return "", ErrPathIgnored
	}

	info, err := os.Stat(r.absPath(rel))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrPathNotFound
		}
		return "", fmt.Errorf("stat: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", ErrNotRegularFile
	}
	return rel, nil
}

// ClearStaging empties the staging index.
func (r *Repo) ClearStaging() error {
	if err := writeFileAtomic(r.indexPath(), nil); err != nil {
		return fmt.Errorf("clear staging: %w", err)
	}
	return nil
}

// Unstage removes paths from the staging index. Paths that are not staged
// are reported with ErrPathNotStaged; the others are still removed.
func (r *Repo) Unstage(paths []string) error {
	staged, err := r.StagedPaths()
	if err != nil {
		return fmt.Errorf("unstage: %w", err)
	}
	remove := make(map[string]bool)
	var failures []error
	for _, p := range paths {
		rel, err := r.repoRelPath(p)
		if err != nil {
			failures = append(failures, &PathError{Path: p, Err: err})
			continue
		}
		remove[rel] = true
	}

	var buf bytes.Buffer
	found := make(map[string]bool)
	for _, p := range staged {
		if remove[p] {
			found[p] = true
			continue
		}
		buf.WriteString(p)
		buf.WriteByte('\n')
	}
	for rel := range remove {
		if !found[rel] {
			failures = append(failures, &PathError{Path: rel, Err: ErrPathNotStaged})
		}
	}

	if len(found) > 0 {
		if err := writeFileAtomic(r.indexPath(), buf.Bytes()); err != nil {
			return fmt.Errorf("unstage: %w", err)
		}
	}
	return errors.Join(failures...)
}

func (r *Repo) absPath(rel string) string {
	return filepath.Join(r.RootDir, filepath.FromSlash(rel))
}

// repoRelPath converts a path (absolute, or relative to CWD) into a slash
// separated path relative to the repository root. A relative path that does
// not resolve inside the repo from the CWD is taken as already
// repo-relative.
func (r *Repo) repoRelPath(p string) (string, error) {
	if strings.ContainsAny(p, "\n\r\x00") || strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}

	var rel string
	if filepath.IsAbs(p) {
		var err error
		rel, err = filepath.Rel(r.RootDir, p)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrPathOutsideRepo, err)
		}
	} else {
		rel = filepath.Clean(p)
		if cwd, err := os.Getwd(); err == nil {
			if fromCwd, err := filepath.Rel(r.RootDir, filepath.Join(cwd, p)); err == nil && !escapes(fromCwd) {
				rel = fromCwd
			}
		}
	}

	if escapes(rel) {
		return "", ErrPathOutsideRepo
	}
	if rel == "." {
		return "", ErrNotRegularFile
	}
	return filepath.ToSlash(rel), nil
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
