package spritesort

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrSourceNotFound = errors.New("source directory not found")
	ErrResetFailed    = errors.New("cannot reset destination directory")
	ErrUnsafeDest     = errors.New("destination overlaps source directory")
)

// ResetDir removes dir and everything below it, then recreates it empty.
func ResetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w: remove %s: %w", ErrResetFailed, dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrResetFailed, dir, err)
	}
	return nil
}

// checkDirs verifies src is a directory and that wiping dst cannot touch it.
func checkDirs(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSourceNotFound, src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrSourceNotFound, src)
	}

	absSrc, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if within(absSrc, absDst) {
		return fmt.Errorf("%w: %s contains %s", ErrUnsafeDest, dst, src)
	}
	return nil
}

// within reports whether path equals root or lies below it.
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
