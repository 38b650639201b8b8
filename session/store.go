package session

import (
	"sync"

	perrors "github.com/jrsteele09/go-portal-client/internal/errors"
)

// Store persists a session across process restarts.
type Store interface {
	Save(sess Session) error
	// Load returns ErrSessionNotFound when nothing is stored.
	Load() (*Session, error)
	Clear() error
}

var _ Store = (*MemoryStore)(nil)

type MemoryStore struct {
	sess *Session
	lock sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (ms *MemoryStore) Save(sess Session) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	sess.User = copyUser(sess.User)
	ms.sess = &sess
	return nil
}

func (ms *MemoryStore) Load() (*Session, error) {
	ms.lock.RLock()
	defer ms.lock.RUnlock()
	if ms.sess == nil {
		return nil, perrors.ErrSessionNotFound
	}
	sess := *ms.sess
	sess.User = copyUser(sess.User)
	return &sess, nil
}

func (ms *MemoryStore) Clear() error {
	ms.lock.Lock()
	defer ms.lock.Unlock()
	ms.sess = nil
	return nil
}
