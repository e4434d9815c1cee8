package dataindex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/errs"
)

// QuarantineFile moves srcPath to dstDir/rel, keeping the file's path
// relative to its acquisition. An existing target is never overwritten:
// the moved file is numbered name-1.ext, name-2.ext and so on.
func QuarantineFile(srcPath, dstDir, rel string) (string, error) {
	if strings.TrimSpace(dstDir) == "" {
		return "", ErrConfig.New("quarantine directory is empty")
	}
	rel = filepath.Clean(rel)
	if !filepath.IsLocal(rel) {
		return "", ErrValidation.New("quarantine path %q escapes %q", rel, dstDir)
	}
	target := filepath.Join(dstDir, rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	dst, err := freePath(target)
	if err != nil {
		return "", err
	}
	if err := os.Rename(srcPath, dst); err == nil {
		return dst, nil
	}
	// Quarantine may sit on another filesystem.
	if err := copyFile(srcPath, dst); err != nil {
		return "", err
	}
	return dst, os.Remove(srcPath)
}

// freePath returns p, or the first numbered sibling of p that does not
// exist yet.
func freePath(p string) (string, error) {
	ext := filepath.Ext(p)
	stem := strings.TrimSuffix(p, ext)
	candidate := p
	for n := 1; ; n++ {
		_, err := os.Lstat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
}

// copyFile writes src to a temporary file beside dst and renames it into
// place, so dst never holds a partial copy.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".quarantine-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err := io.Copy(tmp, in); err != nil {
		return errs.Combine(err, tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
