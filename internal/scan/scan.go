package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// File describes a discovered audio file.
type File struct {
	Path string
	Ext  string // lowercase, without the leading dot
}

// Options adjusts discovery behavior.
type Options struct {
	// Extensions is the allow-list, lowercase without dots. Required.
	Extensions []string
	// FollowSymlinks resolves symlinked files instead of skipping them.
	FollowSymlinks bool
}

// Discover recursively enumerates files under root whose extension matches
// the allow-list. It fails fast when root does not exist or is not a
// directory. The result order is the lexical walk order of the tree.
func Discover(root string, opts Options) ([]File, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("scan root is required")
	}
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("directory %q does not exist", root)
		}
		return nil, fmt.Errorf("inspect %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", root)
	}
	if len(opts.Extensions) == 0 {
		return nil, errors.New("extension allow-list is empty")
	}

	allowed := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if !opts.FollowSymlinks {
				return nil
			}
			resolved, statErr := os.Stat(path)
			if statErr != nil || resolved.IsDir() {
				return nil
			}
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if _, ok := allowed[ext]; !ok {
			return nil
		}
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			abs = path
		}
		files = append(files, File{Path: abs, Ext: ext})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", root, err)
	}
	return files, nil
}
