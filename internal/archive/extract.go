// Package archive reads transcript archives and writes knowledge pack bundles.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrNotZip is returned when the input archive is not a readable zip file.
var ErrNotZip = errors.New("not a zip archive")

// Extract writes every entry of the zip at src below dst, creating dst if
// needed, and returns the number of files written. Existing files are
// overwritten.
func Extract(src, dst string) (int, error) {
	// Insecure entry names are sanitized below, so the reader is still usable.
	r, err := zip.OpenReader(src)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		if errors.Is(err, zip.ErrFormat) {
			return 0, fmt.Errorf("open archive %s: %w", src, ErrNotZip)
		}
		return 0, fmt.Errorf("open archive %s: %w", src, err)
	}
	defer r.Close()

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return 0, fmt.Errorf("create extract directory: %w", err)
	}

	written := 0
	for _, f := range r.File {
		name := SanitizeName(f.Name)
		if name == "" {
			continue
		}
		target := filepath.Join(dst, filepath.FromSlash(name))
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return written, fmt.Errorf("create directory %s: %w", name, err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return written, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		written++
	}
	return written, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// SanitizeName turns a zip entry name into a relative slash path that cannot
// escape the extraction root. Empty, "." and ".." components are dropped.
func SanitizeName(name string) string {
	var parts []string
	for _, part := range strings.Split(name, "/") {
		switch part {
		case "", ".", "..":
			continue
		}
		parts = append(parts, part)
	}
	return path.Join(parts...)
}
