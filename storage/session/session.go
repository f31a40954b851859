// Package session persists the admin session in a small YAML file, under the
// same two keys the web console keeps in browser storage.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/auth"
)

type (
	// FileStorage is safe for concurrent use within a process.
	FileStorage struct {
		path string
		mu   sync.Mutex
	}

	file struct {
		AdminUser  string `yaml:"admin_user"` // JSON encoded auth.Admin
		AdminToken string `yaml:"admin_token"`
	}
)

var _ auth.Storage = (*FileStorage)(nil)

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func NewFileStorageFromConfig(conf *core.Config) *FileStorage {
	return NewFileStorage(conf.Session.Path)
}

func (s *FileStorage) Path() string { return s.path }

// Load returns auth.ErrNoSession when nothing was saved.
func (s *FileStorage) Load() (auth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return auth.Session{}, auth.ErrNoSession
		}
		return auth.Session{}, errors.Wrapf(err, "reading %s", s.path)
	}

	var f file
	if err = yaml.Unmarshal(data, &f); err != nil {
		return auth.Session{}, errors.Wrapf(err, "decoding %s", s.path)
	}
	if f.AdminToken == "" {
		return auth.Session{}, auth.ErrNoSession
	}

	sess := auth.Session{Token: f.AdminToken}
	if f.AdminUser != "" {
		if err = json.Unmarshal([]byte(f.AdminUser), &sess.Admin); err != nil {
			return auth.Session{}, errors.Wrap(err, "decoding admin_user")
		}
	}
	return sess, nil
}

func (s *FileStorage) Save(sess auth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := json.Marshal(sess.Admin)
	if err != nil {
		return errors.Wrap(err, "encoding admin_user")
	}
	data, err := yaml.Marshal(file{AdminUser: string(user), AdminToken: sess.Token})
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err = os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(s.path))
	}

	// write then rename so that a crash never leaves half a file behind
	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrapf(err, "writing %s", tmp)
	}
	return errors.Wrap(os.Rename(tmp, s.path), "saving session")
}

// Clear removes the session file. Clearing a missing session is not an error.
func (s *FileStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", s.path)
	}
	return nil
}
