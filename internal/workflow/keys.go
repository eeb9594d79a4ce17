package workflow

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/storyboard/internal/common"
)

// KeyHolder keeps the API key for the session. It is a CredentialProvider
// for hosts that receive keys out of band: Select succeeds only when a new
// key was Set since the previous Select.
type KeyHolder struct {
	mu    sync.RWMutex
	key   string
	fresh bool
}

func NewKeyHolder(key string) *KeyHolder {
	return &KeyHolder{key: strings.TrimSpace(key)}
}

// Key returns the current key. It is safe to use as a per-call key source.
func (h *KeyHolder) Key() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.key
}

func (h *KeyHolder) Set(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.key = strings.TrimSpace(key)
	h.fresh = h.key != ""
}

func (h *KeyHolder) HasCredential(context.Context) bool {
	return h.Key() != ""
}

func (h *KeyHolder) Select(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.fresh {
		return common.ErrCredentialRequired
	}
	h.fresh = false
	return nil
}
