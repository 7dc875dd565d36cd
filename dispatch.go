package spritesort

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Dispatcher copies classified files into per-category directories under Root
// and records the outcome in Stats. Safe for concurrent use.
type Dispatcher struct {
	Root  string
	Stats *RunStats
}

// Dispatch copies file into Root/category, creating the directory on demand.
// The source is never modified. On success the category counter is
// incremented; on failure the Errored counter is, and the error is returned.
// It returns the destination path.
func (d *Dispatcher) Dispatch(file SourceFile, category Category) (string, error) {
	dir := filepath.Join(d.Root, string(category))
	dst := filepath.Join(dir, file.Name)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		d.Stats.Inc(Errored)
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	if err := copyFile(file.Path(), dst); err != nil {
		d.Stats.Inc(Errored)
		return "", fmt.Errorf("copy %s: %w", file.Name, err)
	}

	d.Stats.Inc(category)
	return dst, nil
}

// copyFile copies src to dst, keeping permission bits and modification time.
// A partially written dst is removed.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}

	// Metadata is best effort; some filesystems refuse it.
	_ = os.Chmod(dst, info.Mode().Perm())
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}
