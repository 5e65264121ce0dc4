// Package fsutil provides file system utility functions.
package fsutil

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns their full paths in lexical order.
func FindFilesByExtension(fsys afero.Fs, rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := afero.Walk(fsys, rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// ExpandInputs replaces every directory in paths with the files below it
// ending in extension. Plain files are kept as given, in order.
func ExpandInputs(fsys afero.Fs, paths []string, extension string) ([]string, error) {
	var out []string
	for _, p := range paths {
		isDir, err := afero.IsDir(fsys, p)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if !isDir {
			out = append(out, p)
			continue
		}
		files, err := FindFilesByExtension(fsys, p, extension)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}
