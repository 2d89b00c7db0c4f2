package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// Test 1: Init creates .bgit/ structure (HEAD, objects/, refs/heads/, index).
func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()

	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init(%q): %v", dir, err)
	}
	defer r.Close()
	if r.RootDir != dir {
		t.Errorf("RootDir = %q, want %q", r.RootDir, dir)
	}

	bgitDir := filepath.Join(dir, ".bgit")
	if r.BgitDir != bgitDir {
		t.Errorf("BgitDir = %q, want %q", r.BgitDir, bgitDir)
	}

	assertDir(t, bgitDir)
	assertFile(t, filepath.Join(bgitDir, "HEAD"))
	assertFile(t, filepath.Join(bgitDir, "index"))
	assertFile(t, filepath.Join(bgitDir, "config.toml"))
	assertDir(t, filepath.Join(bgitDir, "objects"))
	assertDir(t, filepath.Join(bgitDir, "refs", "heads"))

	// Default branch exists and is unborn.
	data, err := os.ReadFile(filepath.Join(bgitDir, "refs", "heads", "main"))
	if err != nil {
		t.Fatalf("read main ref: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("main ref = %q, want empty", data)
	}

	if r.Store == nil {
		t.Error("Store is nil after Init")
	}
}

// Test 2: Init on existing repo returns ErrRepoExists.
func TestInit_ExistingRepo_Error(t *testing.T) {
	dir := t.TempDir()

	r, err := Init(dir)
	if err != nil {
		t.Fatalf("first Init: %v", err)
	}
	r.Close()

	_, err = Init(dir)
	if !errors.Is(err, ErrRepoExists) {
		t.Fatalf("second Init error = %v, want ErrRepoExists", err)
	}
}

// Test 3: Open finds .bgit/ from subdirectory.
func TestOpen_FromSubdirectory(t *testing.T) {
	dir := t.TempDir()

	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	r.Close()

	sub := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	r, err = Open(sub)
	if err != nil {
		t.Fatalf("Open(%q): %v", sub, err)
	}
	defer r.Close()
	if r.RootDir != dir {
		t.Errorf("RootDir = %q, want %q", r.RootDir, dir)
	}
}

// Test 4: Open on a directory without .bgit/ returns ErrNotARepository.
func TestOpen_NoRepo_Error(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(dir)
	if !errors.Is(err, ErrNotARepository) {
		t.Fatalf("Open error = %v, want ErrNotARepository", err)
	}
}

// Test 5: HEAD defaults to a symbolic ref on main.
func TestInit_HeadDefault(t *testing.T) {
	dir := t.TempDir()

	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer r.Close()

	data, err := os.ReadFile(filepath.Join(dir, ".bgit", "HEAD"))
	if err != nil {
		t.Fatalf("ReadFile(HEAD): %v", err)
	}
	if got, want := string(data), "ref: refs/heads/main\n"; got != want {
		t.Errorf("HEAD = %q, want %q", got, want)
	}

	head, err := r.ReadHead()
	if err != nil {
		t.Fatalf("ReadHead: %v", err)
	}
	if head.Kind != HeadSymbolic || head.Branch != "main" {
		t.Errorf("ReadHead = %+v, want symbolic main", head)
	}
}

func TestInitWithConfig_DefaultBranch(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Core.DefaultBranch = "trunk"

	r, err := InitWithConfig(dir, cfg)
	if err != nil {
		t.Fatalf("InitWithConfig: %v", err)
	}
	defer r.Close()

	branch, err := r.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if branch != "trunk" {
		t.Fatalf("CurrentBranch = %q, want trunk", branch)
	}
	branches, err := r.ListBranches()
	if err != nil {
		t.Fatalf("ListBranches: %v", err)
	}
	if len(branches) != 1 || branches[0] != "trunk" {
		t.Fatalf("ListBranches = %v, want [trunk]", branches)
	}
}

func TestInitWithConfig_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Core.DefaultBranch = "bad name"

	if _, err := InitWithConfig(dir, cfg); !errors.Is(err, ErrInvalidBranchName) {
		t.Fatalf("InitWithConfig error = %v, want ErrInvalidBranchName", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".bgit")); !os.IsNotExist(err) {
		t.Fatalf("expected no .bgit after rejected init, stat err=%v", err)
	}
}

// helpers

func initRepo(t *testing.T) *Repo {
	t.Helper()
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func writeFile(t *testing.T, r *Repo, rel, content string) string {
	t.Helper()
	path := filepath.Join(r.RootDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", rel, err)
	}
	return path
}

func assertDir(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory %q to exist: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("%q exists but is not a directory", path)
	}
}

func assertFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected file %q to exist: %v", path, err)
		return
	}
	if info.IsDir() {
		t.Errorf("%q exists but is a directory, expected file", path)
	}
}
