package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func newIgnoreChecker(t *testing.T, dir string) *IgnoreChecker {
	t.Helper()
	ic, err := NewIgnoreChecker(dir)
	if err != nil {
		t.Fatalf("NewIgnoreChecker: %v", err)
	}
	return ic
}

// .bgit/ is always ignored, no .bgitignore file needed.
func TestIgnore_BgitDirAlwaysIgnored(t *testing.T) {
	ic := newIgnoreChecker(t, t.TempDir())

	for _, p := range []string{".bgit", ".bgit/HEAD", ".bgit/objects/ab/cdef"} {
		if !ic.IsIgnored(p) {
			t.Errorf("expected %s to be ignored", p)
		}
	}
}

func TestIgnore_GitDirAlwaysIgnored(t *testing.T) {
	ic := newIgnoreChecker(t, t.TempDir())

	if !ic.IsIgnored(".git/config") {
		t.Error("expected .git/config to be ignored")
	}
	if !ic.IsIgnored(".git") {
		t.Error("expected .git to be ignored")
	}
}

func TestIgnore_SimpleGlobPattern(t *testing.T) {
	dir := t.TempDir()
	writeBgitignore(t, dir, "*.log\n")

	ic := newIgnoreChecker(t, dir)

	if !ic.IsIgnored("debug.log") {
		t.Error("expected debug.log to be ignored")
	}
	if ic.IsIgnored("debug.txt") {
		t.Error("expected debug.txt to NOT be ignored")
	}
}

func TestIgnore_DirectoryPattern(t *testing.T) {
	dir := t.TempDir()
	writeBgitignore(t, dir, "build/\n")

	ic := newIgnoreChecker(t, dir)

	if !ic.IsIgnored("build/output.o") {
		t.Error("expected build/output.o to be ignored")
	}
	if !ic.IsIgnored("build/sub/file.txt") {
		t.Error("expected build/sub/file.txt to be ignored")
	}
}

func TestIgnore_NegationPattern(t *testing.T) {
	dir := t.TempDir()
	writeBgitignore(t, dir, "*.log\n!important.log\n")

	ic := newIgnoreChecker(t, dir)

	if !ic.IsIgnored("debug.log") {
		t.Error("expected debug.log to be ignored")
	}
	if ic.IsIgnored("important.log") {
		t.Error("expected important.log to NOT be ignored")
	}
}

func TestIgnore_CommentLines(t *testing.T) {
	dir := t.TempDir()
	writeBgitignore(t, dir, "# this is a comment\n*.log\n# another comment\n")

	ic := newIgnoreChecker(t, dir)

	if !ic.IsIgnored("debug.log") {
		t.Error("expected debug.log to be ignored")
	}
	if ic.IsIgnored("# this is a comment") {
		t.Error("expected comment text to NOT match as a pattern")
	}
}

func TestIgnore_NoIgnoreFile(t *testing.T) {
	ic := newIgnoreChecker(t, t.TempDir())

	if ic.IsIgnored("main.go") {
		t.Error("expected main.go to NOT be ignored")
	}
	if ic.IsIgnored("src/util.go") {
		t.Error("expected src/util.go to NOT be ignored")
	}
}

func TestIgnore_SubdirectoryFileMatch(t *testing.T) {
	dir := t.TempDir()
	writeBgitignore(t, dir, "*.o\n")

	ic := newIgnoreChecker(t, dir)

	if !ic.IsIgnored("src/foo.o") {
		t.Error("expected src/foo.o to be ignored")
	}
	if !ic.IsIgnored("foo.o") {
		t.Error("expected foo.o to be ignored")
	}
	if ic.IsIgnored("src/foo.go") {
		t.Error("expected src/foo.go to NOT be ignored")
	}
}

// helper: write a .bgitignore file in the given directory.
func writeBgitignore(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, IgnoreFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", IgnoreFile, err)
	}
}
