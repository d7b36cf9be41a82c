// Package transcript finds transcript files in an extracted tree, pulls a flat
// text string out of each, and normalizes it for chunking.
package transcript

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Extensions lists the lowercase file extensions read as transcripts.
var Extensions = []string{".txt", ".md", ".json"}

// Ext returns the lowercase extension of path. A leading dot alone does not
// make an extension, so ".txt" and "notes." have none.
func Ext(path string) string {
	name := filepath.Base(path)
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i:])
}

// Supported reports whether path has one of the transcript extensions.
func Supported(path string) bool {
	ext := Ext(path)
	for _, allowed := range Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Discover returns every supported file below root ordered component by
// component, so "a/x" sorts before "a-b/x".
func Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if Supported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(files, func(i, j int) bool {
		return comparePaths(files[i], files[j]) < 0
	})
	return files, nil
}

func comparePaths(a, b string) int {
	pa := strings.Split(filepath.ToSlash(a), "/")
	pb := strings.Split(filepath.ToSlash(b), "/")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if c := strings.Compare(pa[i], pb[i]); c != 0 {
			return c
		}
	}
	return len(pa) - len(pb)
}
