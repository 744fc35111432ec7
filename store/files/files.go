// Package files is the local file store collaborator: named byte storage
// under an app-private directory, reporting size and a file URI.
package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var ErrNotFound = errors.New("no such file")

// Info describes a stored file.
type Info struct {
	Name string
	Size int64
	// URI is a file:// reference usable by the share sheet and the player.
	URI string
}

// Store is create/write/read/stat on named files. Names are flat; path
// separators are rejected so callers cannot escape the store directory.
type Store interface {
	Create(name string) (io.WriteCloser, error)
	// Append opens an existing file for appending, for resumed downloads.
	Append(name string) (io.WriteCloser, error)
	Open(name string) (io.ReadCloser, error)
	Stat(name string) (Info, error)
	Rename(oldName, newName string) error
	Remove(name string) error
}

type localStore struct {
	dir string
}

// NewLocal returns a Store rooted at dir, creating it if necessary.
func NewLocal(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &localStore{dir: dir}, nil
}

func (s *localStore) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

func (s *localStore) Create(name string) (io.WriteCloser, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	return os.Create(path)
}

func (s *localStore) Append(name string) (io.WriteCloser, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
}

func (s *localStore) Open(name string) (io.ReadCloser, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return f, err
}

func (s *localStore) Stat(name string) (Info, error) {
	path, err := s.path(name)
	if err != nil {
		return Info{}, err
	}
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		return Info{}, ErrNotFound
	} else if err != nil {
		return Info{}, err
	}
	return Info{
		Name: name,
		Size: fi.Size(),
		URI:  "file://" + path,
	}, nil
}

func (s *localStore) Rename(oldName, newName string) error {
	oldPath, err := s.path(oldName)
	if err != nil {
		return err
	}
	newPath, err := s.path(newName)
	if err != nil {
		return err
	}
	return os.Rename(oldPath, newPath)
}

func (s *localStore) Remove(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
