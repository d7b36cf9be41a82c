package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Writer builds a deflate-compressed zip archive on disk.
type Writer struct {
	file *os.File
	zw   *zip.Writer
}

// Create opens a new archive at path, truncating any existing file.
func Create(archivePath string) (*Writer, error) {
	if dir := filepath.Dir(archivePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}
	file, err := os.Create(archivePath)
	if err != nil {
		return nil, fmt.Errorf("create archive %s: %w", archivePath, err)
	}
	return &Writer{file: file, zw: zip.NewWriter(file)}, nil
}

// AddFile copies the file at src into the archive under name.
func (w *Writer) AddFile(src, name string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("header for %s: %w", src, err)
	}
	header.Name = name
	header.Method = zip.Deflate

	dst, err := w.zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("add %s: %w", name, err)
	}
	if _, err := io.Copy(dst, in); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// AddTree mirrors every regular file below root into the archive under
// prefix and returns the number of files added.
func (w *Writer) AddTree(root, prefix string) (int, error) {
	added := 0
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if err := w.AddFile(p, path.Join(prefix, filepath.ToSlash(rel))); err != nil {
			return err
		}
		added++
		return nil
	})
	if err != nil {
		return added, fmt.Errorf("mirror %s: %w", root, err)
	}
	return added, nil
}

// Close finishes the central directory and closes the file.
func (w *Writer) Close() error {
	if err := w.zw.Close(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("finish archive: %w", err)
	}
	return w.file.Close()
}
