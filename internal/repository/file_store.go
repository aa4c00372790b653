package repository

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"

	"storefront/internal/domain"
)

var _ domain.Storage = (*FileStore)(nil)

var ErrSealedStore = errors.New("storage file is sealed and no secret is configured")

const (
	nonceSize = 24
	keySize   = 32
	saltSize  = 16
)

type fileDocument struct {
	Sealed bool              `json:"sealed"`
	Salt   []byte            `json:"salt,omitempty"`
	Values map[string][]byte `json:"values"`
}

// FileStore persists all keys in a single JSON document. Every write
// replaces the file through a rename, so a crash never leaves a torn file.
// With a secret, values are sealed with NaCl secretbox under a key derived
// by scrypt.
type FileStore struct {
	mu   sync.Mutex
	path string
	doc  fileDocument
	key  *[keySize]byte
	log  *logrus.Logger
}

func NewFileStore(path, secret string, logger *logrus.Logger) (*FileStore, error) {
	s := &FileStore{
		path: path,
		doc:  fileDocument{Values: make(map[string][]byte)},
		log:  logger,
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Infof("FileStore: %s does not exist yet, starting empty", path)
		if secret != "" {
			s.doc.Sealed = true
			s.doc.Salt = make([]byte, saltSize)
			if _, err := io.ReadFull(rand.Reader, s.doc.Salt); err != nil {
				return nil, fmt.Errorf("failed to generate storage salt: %w", err)
			}
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read storage file %s: %w", path, err)
	default:
		if err := json.Unmarshal(raw, &s.doc); err != nil {
			logger.Warnf("FileStore: %s is corrupted, starting empty: %v", path, err)
			s.doc = fileDocument{}
		}
		if s.doc.Values == nil {
			s.doc.Values = make(map[string][]byte)
		}
		if s.doc.Sealed && secret == "" {
			return nil, ErrSealedStore
		}
		if !s.doc.Sealed && secret != "" && len(s.doc.Values) > 0 {
			return nil, fmt.Errorf("storage file %s holds unsealed values, refusing to mix them with sealed ones", path)
		}
		if !s.doc.Sealed && secret != "" {
			s.doc.Sealed = true
			s.doc.Salt = make([]byte, saltSize)
			if _, err := io.ReadFull(rand.Reader, s.doc.Salt); err != nil {
				return nil, fmt.Errorf("failed to generate storage salt: %w", err)
			}
		}
	}

	if s.doc.Sealed {
		derived, err := scrypt.Key([]byte(secret), s.doc.Salt, 1<<15, 8, 1, keySize)
		if err != nil {
			return nil, fmt.Errorf("failed to derive storage key: %w", err)
		}
		s.key = new([keySize]byte)
		copy(s.key[:], derived)
	}
	return s, nil
}

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.doc.Values[key]
	if !ok {
		return nil, false, nil
	}
	if s.key == nil {
		out := make([]byte, len(v))
		copy(out, v)
		return out, true, nil
	}
	if len(v) < nonceSize {
		return nil, false, fmt.Errorf("sealed value for key %q is truncated", key)
	}
	var nonce [nonceSize]byte
	copy(nonce[:], v[:nonceSize])
	opened, ok := secretbox.Open(nil, v[nonceSize:], &nonce, s.key)
	if !ok {
		return nil, false, fmt.Errorf("failed to open sealed value for key %q", key)
	}
	return opened, true, nil
}

func (s *FileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	if s.key != nil {
		var nonce [nonceSize]byte
		if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
			return fmt.Errorf("failed to generate nonce: %w", err)
		}
		stored = secretbox.Seal(nonce[:], value, &nonce, s.key)
	}

	prev, had := s.doc.Values[key]
	s.doc.Values[key] = stored
	if err := s.flush(); err != nil {
		if had {
			s.doc.Values[key] = prev
		} else {
			delete(s.doc.Values, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.doc.Values[key]
	if !had {
		return nil
	}
	delete(s.doc.Values, key)
	if err := s.flush(); err != nil {
		s.doc.Values[key] = prev
		return err
	}
	return nil
}

func (s *FileStore) flush() error {
	raw, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("failed to encode storage document: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	s.log.Debugf("FileStore: flushed %d keys to %s", len(s.doc.Values), s.path)
	return nil
}
