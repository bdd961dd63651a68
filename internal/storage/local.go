package storage

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store is the blob-storage collaborator used for profile images.
type Store interface {
	Save(file *multipart.FileHeader, folder string) (string, error)
	Delete(reference string) error
}

// Local stores files on the local disk under a root directory, the way a
// single-node deployment serves its public uploads.
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Local{root: root}, nil
}

// Save writes the uploaded file under root/folder with a generated name
// and returns the reference relative to the root.
func (l *Local) Save(file *multipart.FileHeader, folder string) (string, error) {
	dir := filepath.Join(l.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder %q: %w", folder, err)
	}

	name := uuid.New().String() + filepath.Ext(file.Filename)
	ref := filepath.Join(folder, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(l.root, ref))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := dst.ReadFrom(src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return ref, nil
}

// Delete removes a previously stored file. A missing file is not an error.
func (l *Local) Delete(reference string) error {
	if reference == "" {
		return nil
	}
	err := os.Remove(filepath.Join(l.root, reference))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %q: %w", reference, err)
	}
	return nil
}
