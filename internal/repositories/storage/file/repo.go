package filerepo

import (
	"docproxy/internal/models"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const pkg = "fileRepo/"

type repository struct {
	root string
}

func NewRepository(root string) *repository {
	return &repository{root: root}
}

// FilePath derives the deterministic cache location for an identifier. The
// identifier is reduced to its base name so it cannot escape the root.
func (r *repository) FilePath(id string) string {
	return filepath.Join(r.root, filepath.Base(id))
}

func (r *repository) SaveFile(id string, reader io.Reader) error {
	op := pkg + "SaveFile"

	if err := os.MkdirAll(r.root, 0o755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	path := r.FilePath(id)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := io.Copy(f, reader); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) LoadFile(id string) (io.ReadCloser, error) {
	op := pkg + "LoadFile"

	f, err := os.Open(r.FilePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotCached)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

func (r *repository) DeleteFile(id string) error {
	op := pkg + "DeleteFile"

	if err := os.Remove(r.FilePath(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", op, models.ErrNotCached)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) FileExists(id string) bool {
	info, err := os.Stat(r.FilePath(id))
	return err == nil && !info.IsDir()
}
