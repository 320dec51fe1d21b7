package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Store persists an uploaded temp file and returns its public URL.
// The local file is removed whether the upload succeeds or not.
type Store interface {
	Upload(ctx context.Context, localPath, folder string) (string, error)
}

// LocalStore keeps media on disk and serves it under /media/.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Dir is the root directory served by the router.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Upload(ctx context.Context, localPath, folder string) (string, error) {
	defer removeTemp(localPath)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := filepath.Base(localPath)
	destDir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create media folder: %w", err)
	}
	dest := filepath.Join(destDir, name)

	if err := os.Rename(localPath, dest); err != nil {
		// Rename fails across filesystems; fall back to copying.
		if err := copyFile(localPath, dest); err != nil {
			return "", fmt.Errorf("failed to store media: %w", err)
		}
	}
	return s.baseURL + "/media/" + path.Join(folder, name), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

func removeTemp(p string) {
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[Media] failed to remove temp file %s: %v", p, err)
	}
}
