package session

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	perrors "github.com/jrsteele09/go-portal-client/internal/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

// File layout: magic | salt | nonce | secretbox(json session)
var fileMagic = []byte("PSN1")

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32

	argonTime    = 2
	argonMemory  = 19 * 1024
	argonThreads = 1
)

var _ Store = (*FileStore)(nil)

// FileStore keeps the session encrypted on disk with a key derived from a
// passphrase (argon2id), so a copied session file is useless on its own.
type FileStore struct {
	path       string
	passphrase []byte
}

func NewFileStore(path, passphrase string) (*FileStore, error) {
	if passphrase == "" {
		return nil, perrors.ErrStoreKeyRequired
	}
	if path == "" {
		return nil, fmt.Errorf("[session NewFileStore] path is required")
	}
	return &FileStore{path: path, passphrase: []byte(passphrase)}, nil
}

func (fs *FileStore) Path() string {
	return fs.path
}

func (fs *FileStore) Save(sess Session) error {
	plain, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("[FileStore Save] failed to encode session: %w", err)
	}

	var salt [saltSize]byte
	var nonce [nonceSize]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return fmt.Errorf("[FileStore Save] failed to generate salt: %w", err)
	}
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("[FileStore Save] failed to generate nonce: %w", err)
	}
	key := fs.deriveKey(salt[:])

	out := make([]byte, 0, len(fileMagic)+saltSize+nonceSize+len(plain)+secretbox.Overhead)
	out = append(out, fileMagic...)
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, plain, &nonce, key)

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return fmt.Errorf("[FileStore Save] failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".session-*")
	if err != nil {
		return fmt.Errorf("[FileStore Save] failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("[FileStore Save] failed to write session: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("[FileStore Save] failed to chmod session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[FileStore Save] failed to close session: %w", err)
	}
	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		return fmt.Errorf("[FileStore Save] failed to replace session: %w", err)
	}
	return nil
}

func (fs *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return nil, perrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[FileStore Load] failed to read %s: %w", fs.path, err)
	}

	header := len(fileMagic) + saltSize + nonceSize
	if len(data) < header+secretbox.Overhead || !bytes.Equal(data[:len(fileMagic)], fileMagic) {
		return nil, perrors.Wrapf(perrors.ErrStoreCorrupt, "[FileStore Load] bad header")
	}
	salt := data[len(fileMagic) : len(fileMagic)+saltSize]
	var nonce [nonceSize]byte
	copy(nonce[:], data[len(fileMagic)+saltSize:header])

	plain, ok := secretbox.Open(nil, data[header:], &nonce, fs.deriveKey(salt))
	if !ok {
		return nil, perrors.Wrapf(perrors.ErrStoreCorrupt, "[FileStore Load] wrong passphrase or tampered file")
	}

	var sess Session
	if err := json.Unmarshal(plain, &sess); err != nil {
		return nil, perrors.Wrapf(perrors.ErrStoreCorrupt, "[FileStore Load] %v", err)
	}
	return &sess, nil
}

func (fs *FileStore) Clear() error {
	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("[FileStore Clear] failed to remove %s: %w", fs.path, err)
	}
	return nil
}

func (fs *FileStore) deriveKey(salt []byte) *[keySize]byte {
	var key [keySize]byte
	copy(key[:], argon2.IDKey(fs.passphrase, salt, argonTime, argonMemory, argonThreads, keySize))
	return &key
}
