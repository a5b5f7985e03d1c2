package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dfryer1193/catalog/catalog/domain"
)

var _ domain.ImageStore = (*FileImageStore)(nil)

// FileImageStore keeps uploaded images as flat files in a single directory
type FileImageStore struct {
	dir string
	now func() time.Time
}

// NewFileImageStore creates a store rooted at dir. The directory is created on first save.
func NewFileImageStore(dir string) *FileImageStore {
	return &FileImageStore{
		dir: dir,
		now: time.Now,
	}
}

// Dir returns the directory images are written to
func (s *FileImageStore) Dir() string {
	return s.dir
}

// Save writes content as "<unix seconds>_<original name>".
// Two uploads of the same name within one second share a stored name and the later write wins.
func (s *FileImageStore) Save(ctx context.Context, originalName string, content []byte) (string, error) {
	base := filepath.Base(originalName)
	if originalName == "" || base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("image name cannot be empty")
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	storedName := strconv.FormatInt(s.now().Unix(), 10) + "_" + base
	if err := os.WriteFile(filepath.Join(s.dir, storedName), content, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return storedName, nil
}

// Delete removes storedName from the store. Missing files are not an error.
func (s *FileImageStore) Delete(ctx context.Context, storedName string) error {
	if storedName == "" {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.path(storedName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image file: %w", err)
	}

	return nil
}

func (s *FileImageStore) Exists(storedName string) bool {
	if storedName == "" {
		return false
	}

	info, err := os.Stat(s.path(storedName))
	return err == nil && !info.IsDir()
}

func (s *FileImageStore) path(storedName string) string {
	return filepath.Join(s.dir, filepath.Base(storedName))
}
