package repo

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestStage_AppendsInOrder(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "b.txt", "b")
	writeFile(t, r, "a.txt", "a")

	staged, err := r.Stage([]string{"b.txt", "a.txt"})
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if want := []string{"b.txt", "a.txt"}; !reflect.DeepEqual(staged, want) {
		t.Fatalf("Stage returned %v, want %v", staged, want)
	}

	data, err := os.ReadFile(filepath.Join(r.BgitDir, "index"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if got, want := string(data), "b.txt\na.txt\n"; got != want {
		t.Fatalf("index = %q, want %q", got, want)
	}
}

func TestStage_Dedupes(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "a.txt", "a")

	for i := 0; i < 3; i++ {
		if _, err := r.Stage([]string{"a.txt", "a.txt"}); err != nil {
			t.Fatalf("Stage #%d: %v", i, err)
		}
	}

	paths, err := r.StagedPaths()
	if err != nil {
		t.Fatalf("StagedPaths: %v", err)
	}
	if want := []string{"a.txt"}; !reflect.DeepEqual(paths, want) {
		t.Fatalf("StagedPaths = %v, want %v", paths, want)
	}
}

// A missing path is reported but does not stop the rest from staging.
func TestStage_PartialFailure(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "a.txt", "a")

	staged, err := r.Stage([]string{"missing.txt", "a.txt"})
	if !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("Stage error = %v, want ErrPathNotFound", err)
	}
	var perr *PathError
	if !errors.As(err, &perr) || perr.Path != "missing.txt" {
		t.Fatalf("Stage error = %v, want *PathError for missing.txt", err)
	}
	if want := []string{"a.txt"}; !reflect.DeepEqual(staged, want) {
		t.Fatalf("Stage returned %v, want %v", staged, want)
	}

	paths, err := r.StagedPaths()
	if err != nil {
		t.Fatalf("StagedPaths: %v", err)
	}
	if want := []string{"a.txt"}; !reflect.DeepEqual(paths, want) {
		t.Fatalf("StagedPaths = %v, want %v", paths, want)
	}
}

func TestStage_Rejections(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "dir/inner.txt", "x")
	writeFile(t, r, "debug.log", "x")
	writeFile(t, r, IgnoreFile, "*.log\n")
	outside := filepath.Join(t.TempDir(), "outside.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want error
	}{
		{"nope.txt", ErrPathNotFound},
		{"dir", ErrNotRegularFile},
		{"debug.log", ErrPathIgnored},
		{".bgit/HEAD", ErrPathIgnored},
		{outside, ErrPathOutsideRepo},
		{"../escape.txt", ErrPathOutsideRepo},
		{"bad\nname", ErrInvalidPath},
		{"", ErrInvalidPath},
	}
	for _, tt := range tests {
		staged, err := r.Stage([]string{tt.path})
		if !errors.Is(err, tt.want) {
			t.Errorf("Stage(%q) error = %v, want %v", tt.path, err, tt.want)
		}
		if len(staged) != 0 {
			t.Errorf("Stage(%q) staged %v, want nothing", tt.path, staged)
		}
	}

	paths, err := r.StagedPaths()
	if err != nil {
		t.Fatalf("StagedPaths: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("StagedPaths = %v, want empty", paths)
	}
}

func TestStage_AbsolutePathConverted(t *testing.T) {
	r := initRepo(t)
	abs := writeFile(t, r, "pkg/util/util.go", "package util\n")

	staged, err := r.Stage([]string{abs})
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if want := []string{"pkg/util/util.go"}; !reflect.DeepEqual(staged, want) {
		t.Fatalf("Stage returned %v, want %v", staged, want)
	}
}

func TestStage_CwdRelativePath(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "sub/file.txt", "x")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(filepath.Join(r.RootDir, "sub")); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	staged, err := r.Stage([]string{"file.txt"})
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if want := []string{"sub/file.txt"}; !reflect.DeepEqual(staged, want) {
		t.Fatalf("Stage returned %v, want %v", staged, want)
	}
}

func TestStagedPaths_Empty(t *testing.T) {
	r := initRepo(t)

	paths, err := r.StagedPaths()
	if err != nil {
		t.Fatalf("StagedPaths: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("StagedPaths = %v, want empty", paths)
	}
}

func TestClearStaging(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "a.txt", "a")
	if _, err := r.Stage([]string{"a.txt"}); err != nil {
		t.Fatalf("Stage: %v", err)
	}

	if err := r.ClearStaging(); err != nil {
		t.Fatalf("ClearStaging: %v", err)
	}
	info, err := os.Stat(filepath.Join(r.BgitDir, "index"))
	if err != nil {
		t.Fatalf("stat index: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("index size = %d, want 0", info.Size())
	}
}

func TestUnstage(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "a.txt", "a")
	writeFile(t, r, "b.txt", "b")
	if _, err := r.Stage([]string{"a.txt", "b.txt"}); err != nil {
		t.Fatalf("Stage: %v", err)
	}

	err := r.Unstage([]string{"a.txt", "c.txt"})
	if !errors.Is(err, ErrPathNotStaged) {
		t.Fatalf("Unstage error = %v, want ErrPathNotStaged for c.txt", err)
	}

	paths, err := r.StagedPaths()
	if err != nil {
		t.Fatalf("StagedPaths: %v", err)
	}
	if want := []string{"b.txt"}; !reflect.DeepEqual(paths, want) {
		t.Fatalf("StagedPaths = %v, want %v", paths, want)
	}
	// Unstaging leaves the working file alone.
	if _, err := os.Stat(filepath.Join(r.RootDir, "a.txt")); err != nil {
		t.Fatalf("a.txt should still exist: %v", err)
	}
}
