package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
)

var (
	// ErrNoSession is returned when no session has been persisted.
	ErrNoSession = errors.New("no stored session")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// TokenStore persists the session between runs.
type TokenStore interface {
	Load() (*core.Session, error)
	Save(core.Session) error
	Clear() error
}

// KeyringTokenStore keeps the session in the OS keyring.
type KeyringTokenStore struct {
	Service string
	Account string
}

// NewKeyringTokenStore creates a store under the given keyring service.
func NewKeyringTokenStore(service string) *KeyringTokenStore {
	return &KeyringTokenStore{Service: service, Account: "session"}
}

// Load returns ErrNoSession if nothing is stored.
func (k *KeyringTokenStore) Load() (*core.Session, error) {
	raw, err := keyring.Get(k.Service, k.Account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	var s core.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode stored session: %w", err)
	}
	return &s, nil
}

func (k *KeyringTokenStore) Save(s core.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := keyring.Set(k.Service, k.Account, string(raw)); err != nil {
		return fmt.Errorf("failed to store session in keyring: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an empty store is not an error.
func (k *KeyringTokenStore) Clear() error {
	err := keyring.Delete(k.Service, k.Account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete session from keyring: %w", err)
	}
	return nil
}

// MemoryTokenStore keeps the session for the life of the process.
type MemoryTokenStore struct {
	mu      sync.Mutex
	session *core.Session
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (m *MemoryTokenStore) Load() (*core.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, ErrNoSession
	}
	s := *m.session
	return &s, nil
}

func (m *MemoryTokenStore) Save(s core.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &s
	return nil
}

func (m *MemoryTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}
