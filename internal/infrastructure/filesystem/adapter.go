// Package filesystem discovers wallpaper images and measures directories.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bnema/walcache/internal/application/port"
	"github.com/spf13/afero"
)

// imageExtensions are matched case-insensitively.
var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".jpe":  {},
	".gif":  {},
}

// Adapter implements port.FileSystem and port.ImageLister over an afero filesystem.
type Adapter struct {
	fs afero.Fs
}

var (
	_ port.FileSystem  = (*Adapter)(nil)
	_ port.ImageLister = (*Adapter)(nil)
)

// New creates a filesystem adapter over fs.
func New(fs afero.Fs) *Adapter {
	return &Adapter{fs: fs}
}

// NewOS creates a filesystem adapter over the host filesystem.
func NewOS() *Adapter {
	return New(afero.NewOsFs())
}

// IsImage reports whether path has a supported image extension.
func IsImage(path string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ListImages returns the images directly under dir, or under its whole tree
// when recursive is set. Hidden files and directories are skipped.
func (a *Adapter) ListImages(ctx context.Context, dir string, recursive bool) ([]string, error) {
	info, err := a.fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("list images in %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("list images in %s: not a directory", dir)
	}

	var images []string
	err = afero.Walk(a.fs, dir, func(path string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		hidden := strings.HasPrefix(fi.Name(), ".")
		if fi.IsDir() {
			if hidden || !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !hidden && IsImage(path) {
			images = append(images, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list images in %s: %w", dir, err)
	}

	sort.Strings(images)
	return images, nil
}

func (a *Adapter) Exists(_ context.Context, path string) (bool, error) {
	_, err := a.fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (a *Adapter) IsDirectory(_ context.Context, path string) (bool, error) {
	return afero.IsDir(a.fs, path)
}

// GetSize returns the size of a file, or the summed size of the files under a
// directory. A missing path has size 0.
func (a *Adapter) GetSize(_ context.Context, path string) (int64, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	var size int64
	err = afero.Walk(a.fs, path, func(_ string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !fi.IsDir() {
			size += fi.Size()
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return size, nil
}
