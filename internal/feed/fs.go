package feed

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem is the set of file operations the synchronizer performs, so tests
// can inject failures per artifact.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	IsNotExist(err error) bool
}

// OSFileSystem implements FileSystem on the local disk. Writes go to a temp
// file in the target directory and are renamed into place.
type OSFileSystem struct{}

func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (*OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (*OSFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, name)
}

func (*OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (*OSFileSystem) IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
