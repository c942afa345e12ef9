// Package archive builds zip packages for indexed add-ons.
package archive

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Options controls archive construction.
type Options struct {
	// Ignore lists entry base names excluded at any depth, files and
	// directories alike.
	Ignore []string
}

// Result describes a built archive.
type Result struct {
	Path   string
	SHA256 string
	Files  int
}

// Build zips the contents of srcDir into destPath. Entries are rooted at
// the package directory name, so unpacking yields a single top-level
// folder. The archive is written to a temp file and renamed into place, so
// a failed build never leaves a truncated archive behind.
func Build(srcDir, destPath string, opts Options) (Result, error) {
	var res Result

	info, err := os.Stat(srcDir)
	if err != nil {
		return res, fmt.Errorf("stat package dir: %w", err)
	}
	if !info.IsDir() {
		return res, fmt.Errorf("package path %s is not a directory", srcDir)
	}

	ignored := make(map[string]bool, len(opts.Ignore))
	for _, name := range opts.Ignore {
		ignored[name] = true
	}

	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return res, fmt.Errorf("create archive dir: %w", err)
	}
	tmp, err := os.CreateTemp(destDir, ".zip-*.tmp")
	if err != nil {
		return res, fmt.Errorf("create temp archive: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once the rename has happened.
		os.Remove(tmpName)
	}()

	root := filepath.Base(srcDir)
	zw := zip.NewWriter(tmp)
	files := 0

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ignored[d.Name()] && path != srcDir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		name := root + "/" + filepath.ToSlash(rel)

		fi, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := zip.FileInfoHeader(fi)
		if err != nil {
			return err
		}
		hdr.Name = name
		hdr.Method = zip.Deflate

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, f)
		f.Close()
		if err != nil {
			return err
		}
		files++
		return nil
	})
	if walkErr != nil {
		zw.Close()
		tmp.Close()
		return res, fmt.Errorf("zip %s: %w", srcDir, walkErr)
	}

	if err := zw.Close(); err != nil {
		tmp.Close()
		return res, fmt.Errorf("finalize archive: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return res, fmt.Errorf("sync archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return res, fmt.Errorf("close archive: %w", err)
	}
	if err := os.Rename(tmpName, destPath); err != nil {
		return res, fmt.Errorf("rename archive: %w", err)
	}

	sum, err := Checksum(destPath)
	if err != nil {
		return res, err
	}

	res = Result{Path: destPath, SHA256: sum, Files: files}
	return res, nil
}

// Checksum returns the hex-encoded SHA-256 digest of the file at path.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash archive: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Name returns the archive file name for a package on a channel. Dev
// builds carry a _dev suffix so both channels can sit in the same
// directory.
func Name(pkg, channel string) string {
	if channel == "dev" {
		return pkg + "_dev.zip"
	}
	return pkg + ".zip"
}
