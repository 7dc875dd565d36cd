package spritesort

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResetDir_RemovesStaleTree(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "sorted")
	stale := filepath.Join(dir, "PYRO", "old.png")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ResetDir(dir); err != nil {
		t.Fatalf("ResetDir: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty dir, found %d entries", len(entries))
	}
}

func TestResetDir_CreatesMissing(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := ResetDir(dir); err != nil {
		t.Fatalf("ResetDir: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("dir not created: %v", err)
	}
}

func TestResetDir_FailsOnUncreatable(t *testing.T) {
	t.Parallel()

	parent := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(parent, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	err := ResetDir(filepath.Join(parent, "sorted"))
	if !errors.Is(err, ErrResetFailed) {
		t.Errorf("err = %v, want ErrResetFailed", err)
	}
}

func TestCheckDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "sprites")
	if err := os.Mkdir(src, 0o755); err != nil {
		t.Fatal(err)
	}
	notDir := filepath.Join(root, "list.txt")
	if err := os.WriteFile(notDir, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		src     string
		dst     string
		wantErr error
	}{
		{name: "ok sibling", src: src, dst: filepath.Join(root, "sorted")},
		{name: "ok nested in source", src: src, dst: filepath.Join(src, "sorted")},
		{name: "missing source", src: filepath.Join(root, "nope"), dst: filepath.Join(root, "sorted"), wantErr: ErrSourceNotFound},
		{name: "source is a file", src: notDir, dst: filepath.Join(root, "sorted"), wantErr: ErrSourceNotFound},
		{name: "dest equals source", src: src, dst: src, wantErr: ErrUnsafeDest},
		{name: "dest contains source", src: src, dst: root, wantErr: ErrUnsafeDest},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := checkDirs(tc.src, tc.dst)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
